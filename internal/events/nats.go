package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"streamhub/proj/internal/domain/models"

	"github.com/nats-io/nats.go"
)

type NatsPublisher struct {
	log *slog.Logger
	nc  *nats.Conn
	js  nats.JetStreamContext
	now func() time.Time
}

// New connects to url and makes sure the views stream exists. An empty url,
// or a broker that cannot be reached, yields a Noop publisher.
func New(log *slog.Logger, url string) Publisher {
	const op = "events.New"
	log = log.With("op", op)
	if url == "" {
		return Noop{}
	}
	nc, err := nats.Connect(url, nats.Name("streamhub"))
	if err != nil {
		log.Warn("NATS connect failed, using noop publisher", "errMsg", err.Error())
		return Noop{}
	}
	js, err := nc.JetStream()
	if err != nil {
		log.Warn("JetStream context creation failed, using noop publisher", "errMsg", err.Error())
		nc.Close()
		return Noop{}
	}
	if err := initStream(js); err != nil {
		log.Warn("stream initialization failed, using noop publisher", "errMsg", err.Error())
		nc.Close()
		return Noop{}
	}
	return &NatsPublisher{log: log, nc: nc, js: js, now: time.Now}
}

func initStream(js nats.JetStreamContext) error {
	if _, err := js.StreamInfo(StreamName); err == nil {
		return nil
	}
	_, err := js.AddStream(&nats.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{"streamhub.views.*"},
		Retention:  nats.LimitsPolicy,
		MaxAge:     7 * 24 * time.Hour,
		Discard:    nats.DiscardOld,
		Storage:    nats.FileStorage,
		Duplicates: 2 * time.Minute,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s stream: %w", StreamName, err)
	}
	return nil
}

func encode(eventType string, occurredAt time.Time, payload any) ([]byte, error) {
	return json.Marshal(Envelope{
		Type:       eventType,
		Version:    "1.0.0",
		OccurredAt: occurredAt.UTC(),
		Payload:    payload,
	})
}

// PublishViewRecorded uses the log entry id as the JetStream message id, so a
// retried publish of the same entry is dropped by the server.
func (p *NatsPublisher) PublishViewRecorded(ctx context.Context, entry models.ViewLogEntry) error {
	b, err := encode(SubjectViewRecorded, p.now(), entry)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectViewRecorded, b, nats.Context(ctx), nats.MsgId(entry.ID))
	return err
}

func (p *NatsPublisher) Close() error {
	if p.nc != nil {
		return p.nc.Drain()
	}
	return nil
}
