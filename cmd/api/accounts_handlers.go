package main

import (
	"net/http"
	"time"

	"streamhub/proj/internal/domain/rbac"

	"github.com/go-chi/chi/v5"
)

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email          string   `json:"email" validate:"required,email,max=254"`
		Password       string   `json:"password" validate:"required,min=6,max=72"`
		FavoriteGenres []string `json:"favoriteGenres" validate:"omitempty,max=20,dive,required,max=50"`
	}
	if !app.readValidJSON(w, r, &req) {
		return
	}
	account, err := app.Services.Accounts.Register(r.Context(), req.Email, req.Password, req.FavoriteGenres)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"account": account}, "Account successfully created")
}

func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if !app.readValidJSON(w, r, &req) {
		return
	}
	result, err := app.Services.Accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{
		"token":     result.Token,
		"expiresAt": time.Now().Add(app.Services.Tokens.TTL()).UTC(),
		"accountId": result.Account.ID,
		"role":      result.Account.Role,
		"profiles":  result.Account.Profiles,
	}, "")
}

func (app *Application) me(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())
	account, err := app.Services.Accounts.Get(r.Context(), principal.AccountID)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"account": account}, "")
}

func (app *Application) listAccounts(w http.ResponseWriter, r *http.Request) {
	list, err := app.Services.Accounts.List(r.Context(), principalFromContext(r.Context()))
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"accounts": list}, "")
}

func (app *Application) setAccountRole(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role" validate:"required,role"`
	}
	if !app.readValidJSON(w, r, &req) {
		return
	}
	account, err := app.Services.Accounts.SetRole(r.Context(), principalFromContext(r.Context()), id, rbac.Role(req.Role))
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"account": account}, "Role successfully updated")
}

func (app *Application) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.Services.Accounts.Delete(r.Context(), principalFromContext(r.Context()), id); err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Account successfully deleted")
}

func (app *Application) addToWatchlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContentID string `json:"contentId" validate:"required,uuid"`
	}
	if !app.readValidJSON(w, r, &req) {
		return
	}
	profileID := chi.URLParam(r, "profileId")
	err := app.Services.Accounts.AddToWatchlist(r.Context(), principalFromContext(r.Context()), profileID, req.ContentID)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Added to watchlist")
}

func (app *Application) removeFromWatchlist(w http.ResponseWriter, r *http.Request) {
	contentID, ok := app.extractIDParam(w, r, "contentId")
	if !ok {
		return
	}
	profileID := chi.URLParam(r, "profileId")
	err := app.Services.Accounts.RemoveFromWatchlist(r.Context(), principalFromContext(r.Context()), profileID, contentID)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Removed from watchlist")
}
