package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeries() *Content {
	return &Content{
		ID:   "c1",
		Type: ContentSeries,
		Seasons: []Season{
			{SeasonNumber: 1, Episodes: []Episode{{ID: "e1", EpisodeNumber: 1}, {ID: "e2", EpisodeNumber: 2}}},
			{SeasonNumber: 2, Episodes: []Episode{{ID: "e3", EpisodeNumber: 1}}},
		},
	}
}

func TestIncrementEpisodeViews(t *testing.T) {
	c := newSeries()
	require.NoError(t, c.IndexEpisodes())

	assert.True(t, c.IncrementEpisodeViews("e3"))
	assert.True(t, c.IncrementEpisodeViews("e3"))
	assert.Equal(t, int64(2), c.Seasons[1].Episodes[0].Views)
	assert.Equal(t, int64(0), c.Seasons[0].Episodes[0].Views)
}

func TestIncrementUnknownEpisodeIsNoop(t *testing.T) {
	c := newSeries()
	assert.False(t, c.IncrementEpisodeViews("missing"))
	for _, s := range c.Seasons {
		for _, e := range s.Episodes {
			assert.Zero(t, e.Views)
		}
	}
}

func TestIndexEpisodesRejectsDuplicateIDs(t *testing.T) {
	c := newSeries()
	c.Seasons[1].Episodes[0].ID = "e1"
	assert.ErrorIs(t, c.IndexEpisodes(), ErrDuplicateEpisodeID)
}

func TestDuplicateEpisodeNumbersNotValidated(t *testing.T) {
	c := newSeries()
	c.Seasons[0].Episodes[1].EpisodeNumber = 1
	assert.NoError(t, c.IndexEpisodes())
}

func TestPatchApply(t *testing.T) {
	c := newSeries()
	c.Title = "Old"
	c.Views = 7
	c.Genres = []string{"drama"}
	title := "New"
	featured := true
	ContentPatch{Title: &title, Featured: &featured}.Apply(c)

	assert.Equal(t, "New", c.Title)
	assert.True(t, c.Featured)
	assert.Equal(t, []string{"drama"}, c.Genres)
	assert.Equal(t, int64(7), c.Views)
	assert.Len(t, c.Seasons, 2)
}

func TestPatchReplacesSeasonsAndIndex(t *testing.T) {
	c := newSeries()
	require.NotNil(t, c.Episode("e1"))
	seasons := []Season{{SeasonNumber: 1, Episodes: []Episode{{ID: "x1"}}}}
	ContentPatch{Seasons: &seasons}.Apply(c)

	assert.Nil(t, c.Episode("e1"))
	assert.NotNil(t, c.Episode("x1"))
}

func TestCloneIsDeep(t *testing.T) {
	c := newSeries()
	cp := c.Clone()
	cp.Seasons[0].Episodes[0].Views = 10
	cp.Genres = append(cp.Genres, "x")
	assert.Zero(t, c.Seasons[0].Episodes[0].Views)

	a := &Account{ID: "a", Profiles: []Profile{{ID: "1", Watchlist: []string{"c1"}}}}
	ac := a.Clone()
	ac.Profiles[0].Watchlist[0] = "c2"
	assert.Equal(t, "c1", a.Profiles[0].Watchlist[0])
	assert.NotNil(t, a.Profile("1"))
	assert.Nil(t, a.Profile("2"))
}
