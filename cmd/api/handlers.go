package main

import (
	"net/http"

	"github.com/go-chi/render"
)

const version = "1.0.0"

func (app *Application) healthcheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, struct {
		Status  string `json:"status"`
		Debug   bool   `json:"debug"`
		Version string `json:"version"`
	}{
		Status:  "available",
		Debug:   app.cfg.Debug,
		Version: version,
	})
}

func (app *Application) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := app.Services.Stats.Get(r.Context(), principalFromContext(r.Context()))
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"stats": stats}, "")
}
