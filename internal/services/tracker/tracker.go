package tracker

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/storage"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const unknown = "unknown"

type ContentCounter interface {
	IncrementViews(ctx context.Context, contentID string) error
	IncrementEpisodeViews(ctx context.Context, contentID, episodeID string) (bool, error)
}

type ViewLogAppender interface {
	Append(ctx context.Context, entry models.ViewLogEntry) error
}

type ProgressStorage interface {
	SetContinueWatching(ctx context.Context, accountID, profileID string, cw models.ContinueWatching) (bool, error)
}

type Publisher interface {
	PublishViewRecorded(ctx context.Context, entry models.ViewLogEntry) error
}

type Metrics interface {
	ViewRecorded(withEpisode bool)
	EventPublished(eventType string, err error)
}

// Event is one playback report. Principal is nil for anonymous viewers.
type Event struct {
	ContentID string
	EpisodeID string
	Principal *models.Principal
	ProfileID string
	SessionID string
	IPAddress string
	UserAgent string
	Duration  float64
	Position  *float64
}

type Result struct {
	Entry            models.ViewLogEntry
	EpisodeCounted   bool
	ProgressSaved    bool
	PublishSucceeded bool
}

// Tracker records playback events. The sub-writes are independent: each is
// its own store call with no surrounding transaction, so a failure part way
// leaves the earlier writes in place.
type Tracker struct {
	log       *slog.Logger
	contents  ContentCounter
	viewLogs  ViewLogAppender
	progress  ProgressStorage
	publisher Publisher
	metrics   Metrics
	tracer    trace.Tracer
	now       func() time.Time
}

func New(
	log *slog.Logger,
	contents ContentCounter,
	viewLogs ViewLogAppender,
	progress ProgressStorage,
	publisher Publisher,
	metrics Metrics,
) *Tracker {
	return &Tracker{
		log:       log,
		contents:  contents,
		viewLogs:  viewLogs,
		progress:  progress,
		publisher: publisher,
		metrics:   metrics,
		tracer:    otel.Tracer("streamhub/tracker"),
		now:       time.Now,
	}
}

func newEntryID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}

func (t *Tracker) Record(ctx context.Context, ev Event) (*Result, error) {
	const op = "tracker.Tracker.Record"
	log := t.log.With("op", op, "content", ev.ContentID, "episode", ev.EpisodeID)
	ctx, span := t.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("content.id", ev.ContentID),
		attribute.String("episode.id", ev.EpisodeID),
	))
	defer span.End()
	fail := func(step string, err error) (*Result, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, step)
		return nil, err
	}

	if err := t.contents.IncrementViews(ctx, ev.ContentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("content not found")
			return fail("increment views", ErrContentNotFound)
		}
		log.Error("Error incrementing views", "errMsg", err.Error())
		return fail("increment views", fmt.Errorf("%s: %w", op, err))
	}

	res := &Result{}
	if ev.EpisodeID != "" {
		counted, err := t.contents.IncrementEpisodeViews(ctx, ev.ContentID, ev.EpisodeID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Error("Error incrementing episode views", "errMsg", err.Error())
			return fail("increment episode views", fmt.Errorf("%s: %w", op, err))
		}
		if !counted {
			log.Debug("episode not part of content, skipping nested counter")
		}
		res.EpisodeCounted = counted
	}

	now := t.now().UTC()
	sessionID := ev.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	entry := models.ViewLogEntry{
		ID:        newEntryID(now),
		ContentID: ev.ContentID,
		EpisodeID: ev.EpisodeID,
		SessionID: sessionID,
		IPAddress: orUnknown(ev.IPAddress),
		UserAgent: orUnknown(ev.UserAgent),
		Timestamp: now,
		Duration:  ev.Duration,
	}
	if ev.Principal != nil {
		entry.UserID = ev.Principal.AccountID
	}
	if err := t.viewLogs.Append(ctx, entry); err != nil {
		log.Error("Error appending view log", "errMsg", err.Error())
		return fail("append view log", fmt.Errorf("%s: %w", op, err))
	}
	res.Entry = entry
	if t.metrics != nil {
		t.metrics.ViewRecorded(ev.EpisodeID != "")
	}

	if t.publisher != nil {
		err := t.publisher.PublishViewRecorded(ctx, entry)
		if t.metrics != nil {
			t.metrics.EventPublished("views.recorded", err)
		}
		if err != nil {
			log.Warn("failed to publish view event", "errMsg", err.Error())
		}
		res.PublishSucceeded = err == nil
	}

	if ev.Principal != nil && ev.Position != nil && ev.ProfileID != "" {
		saved, err := t.progress.SetContinueWatching(ctx, ev.Principal.AccountID, ev.ProfileID, models.ContinueWatching{
			ContentID:   ev.ContentID,
			EpisodeID:   ev.EpisodeID,
			Position:    *ev.Position,
			LastWatched: now,
		})
		if err != nil {
			log.Error("Error saving continue watching", "errMsg", err.Error())
			return fail("continue watching", fmt.Errorf("%s: %w", op, err))
		}
		if !saved {
			log.Debug("profile not found, continue watching not saved", "profile", ev.ProfileID)
		}
		res.ProgressSaved = saved
	}
	span.SetAttributes(attribute.String("view.id", entry.ID))
	return res, nil
}
