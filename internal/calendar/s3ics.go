package calendar

import (
	"bytes"
	"context"
	"path"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// S3ICS publishes one iCalendar object per booking, for feeds that read a
// bucket. The external id is the object's uuid.
type S3ICS struct {
	client *s3.Client
	bucket string
	prefix string
	loc    *time.Location
	now    func() time.Time
}

type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

func NewS3ICS(opts S3Options, loc *time.Location) *S3ICS {
	s3opts := s3.Options{
		Region: opts.Region,
	}
	if opts.AccessKey != "" {
		s3opts.Credentials = credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
	}
	if opts.Endpoint != "" {
		s3opts.BaseEndpoint = aws.String(opts.Endpoint)
		s3opts.UsePathStyle = true
	}

	return &S3ICS{
		client: s3.New(s3opts),
		bucket: opts.Bucket,
		prefix: opts.Prefix,
		loc:    loc,
		now:    time.Now,
	}
}

func (s *S3ICS) NotifyCreated(ctx context.Context, b *models.Booking) (string, error) {
	id := uuid.NewString()
	if err := s.put(ctx, id, b); err != nil {
		return "", err
	}
	return id, nil
}

func (s *S3ICS) NotifyUpdated(ctx context.Context, b *models.Booking, externalID string) error {
	return s.put(ctx, externalID, b)
}

func (s *S3ICS) NotifyDeleted(ctx context.Context, externalID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(externalID)),
	})
	return err
}

func (s *S3ICS) put(ctx context.Context, id string, b *models.Booking) error {
	body, err := renderICS(id, b, s.loc, s.now())
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(id)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/calendar; charset=utf-8"),
	})
	return err
}

func (s *S3ICS) objectKey(id string) string {
	return path.Join(s.prefix, id+".ics")
}

// --------------------------------------------------
// iCalendar rendering (RFC 5545)
// --------------------------------------------------

func renderICS(id string, b *models.Booking, loc *time.Location, now time.Time) ([]byte, error) {
	start, end, err := spanOf(b, loc)
	if err != nil {
		return nil, err
	}

	status := ics.ObjectStatusConfirmed
	switch b.Status {
	case "cancelado":
		status = ics.ObjectStatusCancelled
	case "pendente":
		status = ics.ObjectStatusTentative
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//agenda-engine//PT-BR")

	ev := cal.AddEvent(id)
	ev.SetDtStampTime(now)
	ev.SetStartAt(start)
	ev.SetEndAt(end)
	ev.SetSummary(summaryFor(b))
	ev.SetDescription(descriptionFor(b))
	ev.SetStatus(status)

	return []byte(cal.Serialize()), nil
}

var _ Notifier = (*S3ICS)(nil)
