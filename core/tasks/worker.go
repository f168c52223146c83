package tasks

import (
	"context"
	"encoding/json"

	"volunteer-events-api/core/config"
	"volunteer-events-api/core/constants"
	"volunteer-events-api/core/logger"

	"github.com/hibiken/asynq"
)

// NewWorker builds the asynq server with handlers registered.
// Delivery of confirmation/reminder email is handled by an external mailer;
// the handlers record the outgoing message.
func NewWorker(cfg config.RedisConfig) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: 5,
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskSignupConfirmation, handleSignupConfirmation)
	mux.HandleFunc(constants.TaskEventReminder, handleEventReminder)

	return srv, mux
}

func handleSignupConfirmation(ctx context.Context, t *asynq.Task) error {
	var payload SignupConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Error("Tasks:HandleSignupConfirmation:Unmarshal:Error:", err)
		return err
	}

	logger.Info("Tasks:HandleSignupConfirmation",
		"event_id", payload.EventID,
		"event_title", payload.EventTitle,
		"attendee_email", payload.AttendeeEmail,
		"shift", payload.Shift,
	)
	return nil
}

func handleEventReminder(ctx context.Context, t *asynq.Task) error {
	var payload EventReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Error("Tasks:HandleEventReminder:Unmarshal:Error:", err)
		return err
	}

	logger.Info("Tasks:HandleEventReminder",
		"event_id", payload.EventID,
		"event_title", payload.EventTitle,
		"date", payload.Date,
		"from_time", payload.FromTime,
	)
	return nil
}
