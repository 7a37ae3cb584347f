package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"streamhub/proj/internal/domain/errs"
	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/domain/rbac"
	"streamhub/proj/internal/lib/logger"
	"streamhub/proj/internal/storage"
	"streamhub/proj/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu      sync.Mutex
	entries []models.ViewLogEntry
	err     error
}

func (p *fakePublisher) PublishViewRecorded(ctx context.Context, entry models.ViewLogEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
	return p.err
}

type fakeMetrics struct {
	mu       sync.Mutex
	recorded map[bool]int
	publish  map[bool]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{recorded: map[bool]int{}, publish: map[bool]int{}}
}

func (m *fakeMetrics) ViewRecorded(withEpisode bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded[withEpisode]++
}

func (m *fakeMetrics) EventPublished(eventType string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publish[err == nil]++
}

type fixture struct {
	tracker   *Tracker
	store     *memory.Storage
	publisher *fakePublisher
	metrics   *fakeMetrics
	account   *models.Account
	principal *models.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Contents.Insert(ctx, &models.Content{
		ID:    "series",
		Type:  models.ContentSeries,
		Title: "Dark",
		Seasons: []models.Season{
			{SeasonNumber: 1, Episodes: []models.Episode{{ID: "e1"}, {ID: "e2"}}},
			{SeasonNumber: 2, Episodes: []models.Episode{{ID: "e3"}}},
		},
	}))
	require.NoError(t, store.Contents.Insert(ctx, &models.Content{ID: "movie", Type: models.ContentMovie}))
	account := &models.Account{
		ID:       "acc",
		Email:    "user@example.com",
		Role:     rbac.Member,
		Profiles: []models.Profile{{ID: "1", Name: "Profile 1"}},
	}
	require.NoError(t, store.Accounts.Insert(ctx, account))

	publisher := &fakePublisher{}
	metrics := newFakeMetrics()
	tr := New(logger.Discard(), store.Contents, store.ViewLogs, store.Accounts, publisher, metrics)
	return &fixture{
		tracker:   tr,
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		account:   account,
		principal: &models.Principal{AccountID: account.ID, Email: account.Email, Role: account.Role},
	}
}

func (f *fixture) content(t *testing.T, id string) *models.Content {
	t.Helper()
	c, err := f.store.Contents.Get(context.Background(), id)
	require.NoError(t, err)
	return c
}

func (f *fixture) resumePoint(t *testing.T) *models.ContinueWatching {
	t.Helper()
	acc, err := f.store.Accounts.Get(context.Background(), f.account.ID)
	require.NoError(t, err)
	return acc.Profiles[0].ContinueWatching
}

func pos(f float64) *float64 { return &f }

func TestNEventsCountNViews(t *testing.T) {
	f := newFixture(t)
	const n = 7
	for i := 0; i < n; i++ {
		_, err := f.tracker.Record(context.Background(), Event{ContentID: "movie", SessionID: "same-session"})
		require.NoError(t, err)
	}
	assert.EqualValues(t, n, f.content(t, "movie").Views)
	assert.Equal(t, n, f.store.ViewLogs.Len())
	assert.Len(t, f.publisher.entries, n)
	assert.Equal(t, n, f.metrics.recorded[false])
}

func TestConcurrentEventsCountEveryView(t *testing.T) {
	f := newFixture(t)
	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.tracker.Record(context.Background(), Event{ContentID: "series", EpisodeID: "e3"})
		}()
	}
	wg.Wait()
	c := f.content(t, "series")
	assert.EqualValues(t, n, c.Views)
	assert.EqualValues(t, n, c.Episode("e3").Views)
	assert.Equal(t, n, f.store.ViewLogs.Len())
}

func TestEpisodeCounter(t *testing.T) {
	f := newFixture(t)
	res, err := f.tracker.Record(context.Background(), Event{ContentID: "series", EpisodeID: "e2"})
	require.NoError(t, err)
	assert.True(t, res.EpisodeCounted)

	c := f.content(t, "series")
	assert.EqualValues(t, 1, c.Views)
	assert.EqualValues(t, 0, c.Episode("e1").Views)
	assert.EqualValues(t, 1, c.Episode("e2").Views)
	assert.EqualValues(t, 0, c.Episode("e3").Views)
}

func TestUnknownEpisodeIsNoop(t *testing.T) {
	f := newFixture(t)
	res, err := f.tracker.Record(context.Background(), Event{ContentID: "series", EpisodeID: "nope"})
	require.NoError(t, err)
	assert.False(t, res.EpisodeCounted)

	c := f.content(t, "series")
	assert.EqualValues(t, 1, c.Views)
	for _, id := range []string{"e1", "e2", "e3"} {
		assert.EqualValues(t, 0, c.Episode(id).Views, id)
	}
	assert.Equal(t, 1, f.store.ViewLogs.Len())
	assert.Equal(t, "nope", res.Entry.EpisodeID)
}

func TestUnknownContentWritesNothing(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.Record(context.Background(), Event{ContentID: "missing", Principal: f.principal, ProfileID: "1", Position: pos(5)})
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, 0, f.store.ViewLogs.Len())
	assert.Empty(t, f.publisher.entries)
	assert.Nil(t, f.resumePoint(t))
}

func TestLogEntryContext(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f.tracker.now = func() time.Time { return at }

	res, err := f.tracker.Record(context.Background(), Event{
		ContentID: "movie",
		Principal: f.principal,
		SessionID: "sess-1",
		IPAddress: "10.0.0.1",
		UserAgent: "Mozilla/5.0",
		Duration:  12.5,
	})
	require.NoError(t, err)
	recent, err := f.store.ViewLogs.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, res.Entry, recent[0])
	assert.Equal(t, models.ViewLogEntry{
		ID:        res.Entry.ID,
		ContentID: "movie",
		UserID:    "acc",
		SessionID: "sess-1",
		IPAddress: "10.0.0.1",
		UserAgent: "Mozilla/5.0",
		Timestamp: at,
		Duration:  12.5,
	}, recent[0])
	assert.Len(t, res.Entry.ID, 26)
}

func TestLogEntryDefaults(t *testing.T) {
	f := newFixture(t)
	first, err := f.tracker.Record(context.Background(), Event{ContentID: "movie"})
	require.NoError(t, err)
	second, err := f.tracker.Record(context.Background(), Event{ContentID: "movie"})
	require.NoError(t, err)

	assert.NotEmpty(t, first.Entry.SessionID)
	assert.NotEqual(t, first.Entry.SessionID, second.Entry.SessionID)
	assert.Equal(t, "unknown", first.Entry.IPAddress)
	assert.Equal(t, "unknown", first.Entry.UserAgent)
	assert.Empty(t, first.Entry.UserID)
	assert.NotEqual(t, first.Entry.ID, second.Entry.ID)
}

func TestContinueWatchingLastWriteWins(t *testing.T) {
	testCases := []struct {
		name      string
		positions []float64
		want      float64
	}{
		{"in order", []float64{10, 40}, 40},
		{"reversed", []float64{40, 10}, 10},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			for _, p := range tc.positions {
				res, err := f.tracker.Record(context.Background(), Event{
					ContentID: "series",
					EpisodeID: "e1",
					Principal: f.principal,
					ProfileID: "1",
					Position:  pos(p),
				})
				require.NoError(t, err)
				assert.True(t, res.ProgressSaved)
			}
			cw := f.resumePoint(t)
			require.NotNil(t, cw)
			assert.Equal(t, tc.want, cw.Position)
			assert.Equal(t, "series", cw.ContentID)
			assert.Equal(t, "e1", cw.EpisodeID)
		})
	}
}

func TestContinueWatchingRequiresIdentityAndPosition(t *testing.T) {
	testCases := []struct {
		name string
		ev   Event
	}{
		{"anonymous", Event{ContentID: "movie", ProfileID: "1", Position: pos(5)}},
		{"no position", Event{ContentID: "movie", ProfileID: "1"}},
		{"no profile", Event{ContentID: "movie", Position: pos(5)}},
		{"foreign profile", Event{ContentID: "movie", ProfileID: "9", Position: pos(5)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ev := tc.ev
			if tc.name != "anonymous" {
				ev.Principal = f.principal
			}
			res, err := f.tracker.Record(context.Background(), ev)
			require.NoError(t, err)
			assert.False(t, res.ProgressSaved)
			assert.Nil(t, f.resumePoint(t))
			assert.EqualValues(t, 1, f.content(t, "movie").Views)
		})
	}
}

func TestPublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("nats down")
	res, err := f.tracker.Record(context.Background(), Event{ContentID: "movie"})
	require.NoError(t, err)
	assert.False(t, res.PublishSucceeded)
	assert.Equal(t, 1, f.store.ViewLogs.Len())
	assert.Equal(t, 1, f.metrics.publish[false])
}

type failingLog struct{}

func (failingLog) Append(ctx context.Context, entry models.ViewLogEntry) error {
	return storage.ErrUnavailable
}

func TestPartialFailureKeepsCounters(t *testing.T) {
	f := newFixture(t)
	tr := New(logger.Discard(), f.store.Contents, failingLog{}, f.store.Accounts, f.publisher, f.metrics)

	_, err := tr.Record(context.Background(), Event{ContentID: "series", EpisodeID: "e1", Principal: f.principal, ProfileID: "1", Position: pos(3)})
	assert.ErrorIs(t, err, errs.ErrStoreUnavailable)

	// counters were bumped before the log failed and stay ahead of it
	c := f.content(t, "series")
	assert.EqualValues(t, 1, c.Views)
	assert.EqualValues(t, 1, c.Episode("e1").Views)
	assert.Equal(t, 0, f.store.ViewLogs.Len())
	assert.Nil(t, f.resumePoint(t))
	assert.Empty(t, f.publisher.entries)
}
