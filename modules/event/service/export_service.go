package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gosimple/slug"

	"volunteer-events-api/core/config"
	"volunteer-events-api/core/errors"
	"volunteer-events-api/core/logger"
	"volunteer-events-api/core/utils"
	"volunteer-events-api/modules/event/entity"

	"github.com/google/uuid"
)

// ExportService builds roster CSVs and optionally uploads them to S3.
type ExportService struct {
	events EventServiceInterface
	s3     *s3.Client
	bucket string
}

type ExportServiceInterface interface {
	BuildRosterCSV(event *entity.Event) ([]byte, string)
	ExportRoster(ctx context.Context, eventID uuid.UUID) ([]byte, string, *errors.AppError)
	UploadRoster(ctx context.Context, eventID uuid.UUID) (string, *errors.AppError)
}

func NewExportService(events EventServiceInterface) ExportServiceInterface {
	svc := &ExportService{events: events}

	cfg, ok := config.GetSafe()
	if ok && cfg.S3.Bucket != "" && cfg.S3.AccessKeyID != "" {
		svc.s3 = s3.New(s3.Options{
			Region: cfg.S3.Region,
			Credentials: awsv2.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, "")),
		})
		svc.bucket = cfg.S3.Bucket
	}

	return svc
}

// BuildRosterCSV renders the attendee roster and returns the bytes plus a
// slugged download filename.
func (s *ExportService) BuildRosterCSV(event *entity.Event) ([]byte, string) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"Name", "Email", "Shift", "Signed Up At"})
	for _, a := range event.Attendees {
		email := a.Email
		if email == "" {
			email = "N/A"
		}
		_ = w.Write([]string{
			a.Name,
			email,
			string(a.ShiftPreference),
			a.SignedUpAt.Format(time.RFC3339),
		})
	}
	w.Flush()

	filename := fmt.Sprintf("%s-attendees.csv", slug.Make(event.Title))
	return buf.Bytes(), filename
}

// ExportRoster loads the event and renders its roster CSV.
func (s *ExportService) ExportRoster(ctx context.Context, eventID uuid.UUID) ([]byte, string, *errors.AppError) {
	event, appErr := s.events.RawEvent(ctx, eventID)
	if appErr != nil {
		return nil, "", appErr
	}

	data, filename := s.BuildRosterCSV(event)
	return data, filename, nil
}

// UploadRoster renders the roster CSV and stores it in the configured S3
// bucket, returning the object key.
func (s *ExportService) UploadRoster(ctx context.Context, eventID uuid.UUID) (string, *errors.AppError) {
	if s.s3 == nil {
		return "", errors.NewAppError(errors.ErrInvalidInput, "Roster upload is not configured", nil)
	}

	event, appErr := s.events.RawEvent(ctx, eventID)
	if appErr != nil {
		return "", appErr
	}

	data, filename := s.BuildRosterCSV(event)
	// Each upload gets its own key so earlier snapshots are not overwritten.
	key := fmt.Sprintf("rosters/%s/%s-%s", event.ID, utils.GenerateID(), filename)

	_, err := s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awsv2.String(s.bucket),
		Key:         awsv2.String(key),
		Body:        bytes.NewReader(data),
		ContentType: awsv2.String("text/csv"),
	})
	if err != nil {
		logger.Error("ExportService:UploadRoster:PutObject:Error:", err)
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to upload roster", err)
	}

	logger.Info("ExportService:UploadRoster", "event_id", event.ID.String(), "key", key)
	return key, nil
}
