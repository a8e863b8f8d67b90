package calendar

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/config"
)

// New picks the notifier for cfg.CalendarDriver.
func New(ctx context.Context, cfg *config.Config, loc *time.Location) (Notifier, error) {
	switch cfg.CalendarDriver {
	case config.CalendarGoogle:
		return NewGoogle(ctx, cfg.GoogleCalendarID, cfg.GoogleCredentialsFile, loc)
	case config.CalendarS3:
		return NewS3ICS(S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Prefix:    cfg.S3Prefix,
		}, loc), nil
	default:
		return Noop{}, nil
	}
}
