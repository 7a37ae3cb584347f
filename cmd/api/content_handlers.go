package main

import (
	"net/http"
	"time"

	"streamhub/proj/internal/domain/filters"
	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/services/tracker"

	"github.com/google/uuid"
	"github.com/tomasen/realip"
)

type episodeRequest struct {
	ID            string            `json:"id" validate:"omitempty,max=64"`
	EpisodeNumber int               `json:"episodeNumber" validate:"gte=0"`
	Title         string            `json:"title" validate:"required,max=500"`
	Description   string            `json:"description" validate:"max=5000"`
	Thumbnail     string            `json:"thumbnail" validate:"omitempty,url"`
	VideoURL      string            `json:"videoUrl" validate:"required,url"`
	ServerType    models.ServerType `json:"serverType" validate:"servertype"`
	Duration      int               `json:"duration" validate:"gte=0"`
	ReleaseDate   time.Time         `json:"releaseDate"`
	IntroStart    *float64          `json:"introStart" validate:"omitempty,gte=0"`
	IntroEnd      *float64          `json:"introEnd" validate:"omitempty,gte=0"`
}

type seasonRequest struct {
	SeasonNumber int              `json:"seasonNumber" validate:"gte=1"`
	Episodes     []episodeRequest `json:"episodes" validate:"dive"`
}

func toSeasons(in []seasonRequest) []models.Season {
	seasons := make([]models.Season, 0, len(in))
	for _, s := range in {
		season := models.Season{SeasonNumber: s.SeasonNumber, Episodes: make([]models.Episode, 0, len(s.Episodes))}
		for _, e := range s.Episodes {
			season.Episodes = append(season.Episodes, models.Episode{
				ID:            e.ID,
				EpisodeNumber: e.EpisodeNumber,
				Title:         e.Title,
				Description:   e.Description,
				Thumbnail:     e.Thumbnail,
				VideoURL:      e.VideoURL,
				ServerType:    e.ServerType,
				Duration:      e.Duration,
				ReleaseDate:   e.ReleaseDate,
				IntroStart:    e.IntroStart,
				IntroEnd:      e.IntroEnd,
			})
		}
		seasons = append(seasons, season)
	}
	return seasons
}

type createContentRequest struct {
	Type        models.ContentType `json:"type" validate:"required,contenttype"`
	Title       string             `json:"title" validate:"required,max=500"`
	Description string             `json:"description" validate:"max=5000"`
	Thumbnail   string             `json:"thumbnail" validate:"omitempty,url"`
	Banner      string             `json:"banner" validate:"omitempty,url"`
	Trailer     string             `json:"trailer" validate:"omitempty,url"`
	VideoURL    string             `json:"videoUrl" validate:"omitempty,url"`
	ServerType  models.ServerType  `json:"serverType" validate:"servertype"`
	Genres      []string           `json:"genres" validate:"omitempty,max=20,unique,dive,required,max=50"`
	ReleaseYear int                `json:"releaseYear" validate:"omitempty,gte=1888,lte=2100"`
	Rating      float64            `json:"rating" validate:"gte=0,lte=10"`
	Duration    int                `json:"duration" validate:"gte=0"`
	Seasons     []seasonRequest    `json:"seasons" validate:"dive"`
	Trending    bool               `json:"trending"`
	Featured    bool               `json:"featured"`
}

type updateContentRequest struct {
	Type        *models.ContentType `json:"type" validate:"omitempty,contenttype"`
	Title       *string             `json:"title" validate:"omitempty,min=1,max=500"`
	Description *string             `json:"description" validate:"omitempty,max=5000"`
	Thumbnail   *string             `json:"thumbnail" validate:"omitempty,url"`
	Banner      *string             `json:"banner" validate:"omitempty,url"`
	Trailer     *string             `json:"trailer" validate:"omitempty,url"`
	VideoURL    *string             `json:"videoUrl" validate:"omitempty,url"`
	ServerType  *models.ServerType  `json:"serverType" validate:"omitempty,servertype"`
	Genres      *[]string           `json:"genres" validate:"omitempty,max=20,unique,dive,required,max=50"`
	ReleaseYear *int                `json:"releaseYear" validate:"omitempty,gte=1888,lte=2100"`
	Rating      *float64            `json:"rating" validate:"omitempty,gte=0,lte=10"`
	Duration    *int                `json:"duration" validate:"omitempty,gte=0"`
	Seasons     *[]seasonRequest    `json:"seasons" validate:"omitempty,dive"`
	Trending    *bool               `json:"trending"`
	Featured    *bool               `json:"featured"`
}

func (req *updateContentRequest) patch() models.ContentPatch {
	patch := models.ContentPatch{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		Banner:      req.Banner,
		Trailer:     req.Trailer,
		VideoURL:    req.VideoURL,
		ServerType:  req.ServerType,
		Genres:      req.Genres,
		ReleaseYear: req.ReleaseYear,
		Rating:      req.Rating,
		Duration:    req.Duration,
		Trending:    req.Trending,
		Featured:    req.Featured,
	}
	if req.Seasons != nil {
		seasons := toSeasons(*req.Seasons)
		patch.Seasons = &seasons
	}
	return patch
}

func (app *Application) listContent(w http.ResponseWriter, r *http.Request) {
	var f filters.ContentFilters
	if !app.readQuery(w, r, &f) {
		return
	}
	list, err := app.Services.Catalog.List(r.Context(), f)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"content": list}, "")
}

func (app *Application) getContent(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	content, err := app.Services.Catalog.Get(r.Context(), id)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"content": content}, "")
}

func (app *Application) createContent(w http.ResponseWriter, r *http.Request) {
	var req createContentRequest
	if !app.readValidJSON(w, r, &req) {
		return
	}
	content := &models.Content{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		Banner:      req.Banner,
		Trailer:     req.Trailer,
		VideoURL:    req.VideoURL,
		ServerType:  req.ServerType,
		Genres:      req.Genres,
		ReleaseYear: req.ReleaseYear,
		Rating:      req.Rating,
		Duration:    req.Duration,
		Seasons:     toSeasons(req.Seasons),
		Trending:    req.Trending,
		Featured:    req.Featured,
	}
	created, err := app.Services.Catalog.Create(r.Context(), principalFromContext(r.Context()), content)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"content": created}, "Content successfully created")
}

func (app *Application) updateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var req updateContentRequest
	if !app.readValidJSON(w, r, &req) {
		return
	}
	updated, err := app.Services.Catalog.Update(r.Context(), principalFromContext(r.Context()), id, req.patch())
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"content": updated}, "Content successfully updated")
}

func (app *Application) deleteContent(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.Services.Catalog.Delete(r.Context(), principalFromContext(r.Context()), id); err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Content successfully deleted")
}

// recordView accepts an empty body: a bare POST still counts as one view.
func (app *Application) recordView(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		EpisodeID string   `json:"episodeId" validate:"omitempty,max=64"`
		Duration  float64  `json:"duration" validate:"gte=0"`
		Position  *float64 `json:"position" validate:"omitempty,gte=0"`
	}
	if r.ContentLength != 0 && !app.readValidJSON(w, r, &req) {
		return
	}
	sessionID := r.Header.Get("X-Session-ID")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	result, err := app.Services.Tracker.Record(r.Context(), tracker.Event{
		ContentID: id,
		EpisodeID: req.EpisodeID,
		Principal: principalFromContext(r.Context()),
		ProfileID: r.Header.Get("X-Profile-ID"),
		SessionID: sessionID,
		IPAddress: realip.FromRequest(r),
		UserAgent: r.UserAgent(),
		Duration:  req.Duration,
		Position:  req.Position,
	})
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{
		"sessionId":      result.Entry.SessionID,
		"entryId":        result.Entry.ID,
		"episodeCounted": result.EpisodeCounted,
		"progressSaved":  result.ProgressSaved,
	}, "View recorded")
}
