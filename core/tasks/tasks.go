package tasks

import (
	"context"
	"encoding/json"
	"time"

	"volunteer-events-api/core/config"
	"volunteer-events-api/core/constants"
	"volunteer-events-api/core/logger"

	"github.com/hibiken/asynq"
)

// SignupConfirmationPayload is enqueued after a successful admission.
type SignupConfirmationPayload struct {
	EventID       string `json:"event_id"`
	EventTitle    string `json:"event_title"`
	AttendeeName  string `json:"attendee_name"`
	AttendeeEmail string `json:"attendee_email"`
	Shift         string `json:"shift"`
}

// EventReminderPayload is scheduled ahead of an event's start time.
type EventReminderPayload struct {
	EventID    string `json:"event_id"`
	EventTitle string `json:"event_title"`
	Date       string `json:"date"`
	FromTime   string `json:"from_time"`
}

// ITaskClient is the enqueue contract services depend on.
type ITaskClient interface {
	EnqueueSignupConfirmation(ctx context.Context, payload SignupConfirmationPayload) error
	EnqueueEventReminder(ctx context.Context, payload EventReminderPayload, processAt time.Time) error
	Close() error
}

type Client struct {
	client *asynq.Client
}

var instance *Client

func GetClient() ITaskClient {
	return instance
}

func InitClient(cfg config.RedisConfig) *Client {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	instance = &Client{client: client}
	return instance
}

func (c *Client) EnqueueSignupConfirmation(ctx context.Context, payload SignupConfirmationPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(constants.TaskSignupConfirmation, data)
	info, err := c.client.EnqueueContext(ctx, task, asynq.MaxRetry(3))
	if err != nil {
		return err
	}

	logger.Info("Tasks:EnqueueSignupConfirmation",
		"task_id", info.ID,
		"event_id", payload.EventID,
	)
	return nil
}

func (c *Client) EnqueueEventReminder(ctx context.Context, payload EventReminderPayload, processAt time.Time) error {
	// Reminders for events starting inside the lead window would fire in the
	// past; skip them.
	if processAt.Before(time.Now()) {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(constants.TaskEventReminder, data)
	info, err := c.client.EnqueueContext(ctx, task, asynq.ProcessAt(processAt), asynq.MaxRetry(3))
	if err != nil {
		return err
	}

	logger.Info("Tasks:EnqueueEventReminder",
		"task_id", info.ID,
		"event_id", payload.EventID,
		"process_at", processAt,
	)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
