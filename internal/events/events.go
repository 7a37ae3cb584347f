// Package events streams playback events to NATS JetStream.
package events

import (
	"context"
	"time"

	"streamhub/proj/internal/domain/models"
)

const (
	StreamName          = "STREAMHUB_VIEWS"
	SubjectViewRecorded = "streamhub.views.recorded"
)

// Envelope wraps every published payload.
type Envelope struct {
	Type       string    `json:"type"`
	Version    string    `json:"version"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	PublishViewRecorded(ctx context.Context, entry models.ViewLogEntry) error
	Close() error
}

// Noop is used when no NATS url is configured.
type Noop struct{}

func (Noop) PublishViewRecorded(ctx context.Context, entry models.ViewLogEntry) error { return nil }
func (Noop) Close() error                                                          { return nil }
