package models

import (
	"errors"
	"time"

	"streamhub/proj/internal/domain/rbac"
)

type ContentType string

const (
	ContentMovie  ContentType = "MOVIE"
	ContentSeries ContentType = "SERIES"
)

type ServerType string

const (
	ServerGoogleDrive ServerType = "GOOGLE_DRIVE"
	ServerVidmoly     ServerType = "VIDMOLY"
	ServerCustom      ServerType = "CUSTOM"
)

var ErrDuplicateEpisodeID = errors.New("duplicate episode id")

type Account struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	Role         rbac.Role `json:"role" db:"role"`
	Protected    bool      `json:"protected" db:"protected"` // the distinguished owner
	Profiles     []Profile `json:"profiles" db:"-"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

func (a *Account) Profile(id string) *Profile {
	for i := range a.Profiles {
		if a.Profiles[i].ID == id {
			return &a.Profiles[i]
		}
	}
	return nil
}

func (a *Account) Clone() *Account {
	c := *a
	c.PasswordHash = append([]byte(nil), a.PasswordHash...)
	c.Profiles = make([]Profile, len(a.Profiles))
	for i, p := range a.Profiles {
		c.Profiles[i] = p.clone()
	}
	return &c
}

type Profile struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Avatar           string            `json:"avatar"`
	FavoriteGenres   []string          `json:"favoriteGenres"`
	Watchlist        []string          `json:"watchlist"`
	ContinueWatching *ContinueWatching `json:"continueWatching,omitempty"`
}

func (p Profile) clone() Profile {
	p.FavoriteGenres = append([]string{}, p.FavoriteGenres...)
	p.Watchlist = append([]string{}, p.Watchlist...)
	if p.ContinueWatching != nil {
		cw := *p.ContinueWatching
		p.ContinueWatching = &cw
	}
	return p
}

// ContinueWatching is the single resume point of a profile.
type ContinueWatching struct {
	ContentID   string    `json:"contentId"`
	EpisodeID   string    `json:"episodeId,omitempty"`
	Position    float64   `json:"position"` // seconds
	LastWatched time.Time `json:"lastWatched"`
}

// Principal is the caller identity derived from a verified token.
type Principal struct {
	AccountID string
	Email     string
	Role      rbac.Role
	Protected bool
}

type Content struct {
	ID          string      `json:"id" db:"id"`
	Type        ContentType `json:"type" db:"type"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	Thumbnail   string      `json:"thumbnail" db:"thumbnail"`
	Banner      string      `json:"banner" db:"banner"`
	Trailer     string      `json:"trailer,omitempty" db:"trailer"`
	VideoURL    string      `json:"videoUrl,omitempty" db:"video_url"`
	ServerType  ServerType  `json:"serverType,omitempty" db:"server_type"`
	Genres      []string    `json:"genres" db:"genres"`
	ReleaseYear int         `json:"releaseYear" db:"release_year"`
	Rating      float64     `json:"rating" db:"rating"`
	Duration    int         `json:"duration,omitempty" db:"duration"`
	Seasons     []Season    `json:"seasons,omitempty" db:"-"`
	Views       int64       `json:"views" db:"views"`
	Trending    bool        `json:"trending" db:"trending"`
	Featured    bool        `json:"featured" db:"featured"`
	CreatedBy   string      `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`

	episodes map[string]episodeRef
}

type Season struct {
	SeasonNumber int       `json:"seasonNumber"`
	Episodes     []Episode `json:"episodes"`
}

type Episode struct {
	ID            string     `json:"id" db:"id"`
	EpisodeNumber int        `json:"episodeNumber" db:"episode_number"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	Thumbnail     string     `json:"thumbnail" db:"thumbnail"`
	VideoURL      string     `json:"videoUrl" db:"video_url"`
	ServerType    ServerType `json:"serverType" db:"server_type"`
	Duration      int        `json:"duration" db:"duration"`
	Views         int64      `json:"views" db:"views"`
	ReleaseDate   time.Time  `json:"releaseDate" db:"release_date"`
	IntroStart    *float64   `json:"introStart,omitempty" db:"intro_start"`
	IntroEnd      *float64   `json:"introEnd,omitempty" db:"intro_end"`
}

type episodeRef struct {
	season  int
	episode int
}

// IndexEpisodes rebuilds the episode id index. It must be called after Seasons is
// replaced. Episode ids are the join key for nested counters and must be unique.
func (c *Content) IndexEpisodes() error {
	index := make(map[string]episodeRef)
	for s := range c.Seasons {
		for e := range c.Seasons[s].Episodes {
			id := c.Seasons[s].Episodes[e].ID
			if _, ok := index[id]; ok {
				return ErrDuplicateEpisodeID
			}
			index[id] = episodeRef{season: s, episode: e}
		}
	}
	c.episodes = index
	return nil
}

// Episode finds an episode by id in any season. Returns nil when absent.
func (c *Content) Episode(id string) *Episode {
	if c.episodes == nil {
		// first occurrence wins if ids were never validated
		c.episodes = make(map[string]episodeRef)
		for s := range c.Seasons {
			for e := range c.Seasons[s].Episodes {
				if _, ok := c.episodes[c.Seasons[s].Episodes[e].ID]; !ok {
					c.episodes[c.Seasons[s].Episodes[e].ID] = episodeRef{season: s, episode: e}
				}
			}
		}
	}
	ref, ok := c.episodes[id]
	if !ok || ref.season >= len(c.Seasons) || ref.episode >= len(c.Seasons[ref.season].Episodes) {
		return nil
	}
	ep := &c.Seasons[ref.season].Episodes[ref.episode]
	if ep.ID != id {
		return nil
	}
	return ep
}

// IncrementEpisodeViews bumps the nested counter. Unknown ids are a no-op.
func (c *Content) IncrementEpisodeViews(id string) bool {
	ep := c.Episode(id)
	if ep == nil {
		return false
	}
	ep.Views++
	return true
}

func (c *Content) Clone() *Content {
	cp := *c
	cp.Genres = append([]string{}, c.Genres...)
	cp.Seasons = make([]Season, len(c.Seasons))
	for i, s := range c.Seasons {
		cp.Seasons[i] = Season{SeasonNumber: s.SeasonNumber, Episodes: append([]Episode{}, s.Episodes...)}
	}
	cp.episodes = nil
	return &cp
}

// ContentPatch holds the fields of a partial update. Nil fields stay unchanged.
type ContentPatch struct {
	Type        *ContentType `json:"type"`
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Thumbnail   *string      `json:"thumbnail"`
	Banner      *string      `json:"banner"`
	Trailer     *string      `json:"trailer"`
	VideoURL    *string      `json:"videoUrl"`
	ServerType  *ServerType  `json:"serverType"`
	Genres      *[]string    `json:"genres"`
	ReleaseYear *int         `json:"releaseYear"`
	Rating      *float64     `json:"rating"`
	Duration    *int         `json:"duration"`
	Seasons     *[]Season    `json:"seasons"`
	Trending    *bool        `json:"trending"`
	Featured    *bool        `json:"featured"`
}

// Apply merges the supplied fields into c. Views and ownership are never touched.
func (p ContentPatch) Apply(c *Content) {
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Thumbnail != nil {
		c.Thumbnail = *p.Thumbnail
	}
	if p.Banner != nil {
		c.Banner = *p.Banner
	}
	if p.Trailer != nil {
		c.Trailer = *p.Trailer
	}
	if p.VideoURL != nil {
		c.VideoURL = *p.VideoURL
	}
	if p.ServerType != nil {
		c.ServerType = *p.ServerType
	}
	if p.Genres != nil {
		c.Genres = *p.Genres
	}
	if p.ReleaseYear != nil {
		c.ReleaseYear = *p.ReleaseYear
	}
	if p.Rating != nil {
		c.Rating = *p.Rating
	}
	if p.Duration != nil {
		c.Duration = *p.Duration
	}
	if p.Seasons != nil {
		c.Seasons = *p.Seasons
		c.episodes = nil
	}
	if p.Trending != nil {
		c.Trending = *p.Trending
	}
	if p.Featured != nil {
		c.Featured = *p.Featured
	}
}

// ViewLogEntry is an immutable record of one playback event.
type ViewLogEntry struct {
	ID        string    `json:"id" db:"id"`
	ContentID string    `json:"contentId" db:"content_id"`
	EpisodeID string    `json:"episodeId,omitempty" db:"episode_id"`
	UserID    string    `json:"userId,omitempty" db:"user_id"`
	SessionID string    `json:"sessionId" db:"session_id"`
	IPAddress string    `json:"ipAddress" db:"ip_address"`
	UserAgent string    `json:"userAgent" db:"user_agent"`
	Timestamp time.Time `json:"timestamp" db:"created_at"`
	Duration  float64   `json:"duration" db:"duration"`
}

type Stats struct {
	TotalUsers   int64          `json:"totalUsers"`
	TotalContent int64          `json:"totalContent"`
	TotalViews   int64          `json:"totalViews"`
	TopContent   []Content      `json:"topContent"`
	RecentViews  []ViewLogEntry `json:"recentViews"`
}
