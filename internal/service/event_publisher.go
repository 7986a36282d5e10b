package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/moonbase-api/internal/observability"
)

// Submission event types.
const (
	EventSubmissionCreated       = "created"
	EventSubmissionStatusChanged = "status_changed"
)

// SubmissionEvent is published whenever a submission is created or changes status.
type SubmissionEvent struct {
	Type         string    `json:"type"`
	SubmissionID uuid.UUID `json:"submission_id"`
	ExerciseID   uuid.UUID `json:"exercise_id"`
	StudentID    uint      `json:"student_id"`
	Status       string    `json:"status"`
	ActorID      uint      `json:"actor_id"`
	ActorRole    string    `json:"actor_role"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// EventPublisher delivers lifecycle events to downstream consumers.
type EventPublisher interface {
	PublishSubmissionEvent(ctx context.Context, event SubmissionEvent) error
}

type natsEventPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSEventPublisher publishes events under subject. A nil connection
// yields a publisher that drops every event.
func NewNATSEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) EventPublisher {
	subject = strings.Trim(strings.TrimSpace(subject), ".")
	if subject == "" {
		subject = "moonbase.submissions"
	}
	return &natsEventPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsEventPublisher) PublishSubmissionEvent(ctx context.Context, event SubmissionEvent) error {
	if p.conn == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode submission event: %w", err)
	}

	subject := submissionSubject(p.subject, event.Type)
	if err := p.conn.Publish(subject, payload); err != nil {
		observability.EventsPublished().WithLabelValues(event.Type, "error").Inc()
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	observability.EventsPublished().WithLabelValues(event.Type, "ok").Inc()
	p.logger.Debug().Str("subject", subject).Str("submission_id", event.SubmissionID.String()).Msg("submission event published")
	return nil
}

func submissionSubject(base, eventType string) string {
	return base + "." + eventType
}

// publishEvent sends an event without failing the caller.
func publishEvent(ctx context.Context, publisher EventPublisher, logger zerolog.Logger, event SubmissionEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishSubmissionEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Str("event", event.Type).Msg("failed to publish submission event")
	}
}
