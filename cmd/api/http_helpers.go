package main

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"streamhub/proj/internal/config"
	"streamhub/proj/internal/domain/errs"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Http struct {
	log *slog.Logger
	cfg *config.Config
}

type envelop map[string]any

type Response struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Data    envelop `json:"data,omitempty"`
}

func processMsg(status int, msg string) string {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return msg
}

func (h *Http) setupLogPerReq(r *http.Request) *slog.Logger {
	return h.log.With(
		"request_id",
		middleware.GetReqID(r.Context()),
		"method",
		r.Method,
		"path",
		r.URL.Path,
	)
}

func (h *Http) NewResponse(data envelop, msg string, status int) *Response {
	msg = processMsg(status, msg)
	success := status >= 200 && status < 400
	return &Response{Success: success, Message: msg, Data: data}
}

func (h *Http) Response(w http.ResponseWriter, r *http.Request, data envelop, msg string, status int) {
	render.Status(r, status)
	render.JSON(w, r, h.NewResponse(data, msg, status))
}

func (h *Http) Ok(w http.ResponseWriter, r *http.Request, data envelop, msg string) {
	h.Response(w, r, data, msg, http.StatusOK)
}

func (h *Http) Created(w http.ResponseWriter, r *http.Request, data envelop, msg string) {
	h.Response(w, r, data, msg, http.StatusCreated)
}

func (h *Http) NoContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Http) BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusBadRequest)
}

func (h *Http) Unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	h.Response(w, r, nil, msg, http.StatusUnauthorized)
}

func (h *Http) Forbidden(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusForbidden)
}

func (h *Http) Conflict(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusConflict)
}

func (h *Http) UnprocessableEntity(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	h.Response(w, r, envelop{"errors": errors}, "", http.StatusUnprocessableEntity)
}

func (h *Http) NotFound(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusNotFound)
}

func (h *Http) ServiceUnavailable(w http.ResponseWriter, r *http.Request, err error) {
	h.setupLogPerReq(r).Error("store unavailable", "errMsg", err.Error())
	w.Header().Set("Retry-After", "5")
	h.Response(w, r, nil, "Service temporarily unavailable. Please try again later.", http.StatusServiceUnavailable)
}

func (h *Http) ServerError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := http.StatusInternalServerError
	defaultErrMsg := "Sorry! Can't process your request. Please try again later."
	log := h.setupLogPerReq(r)
	if err != nil {
		log.Error(err.Error())
	}
	render.Status(r, status)
	if msg == "" {
		msg = defaultErrMsg
	}
	if h.cfg.Debug && err != nil {
		msg = err.Error() + "\n" + string(debug.Stack())
		w.WriteHeader(status)
		w.Write([]byte(msg))
		return
	}
	render.JSON(w, r, Response{Success: false, Message: msg})
}

// Error writes the response for an error returned by a service. A denied
// action is 401 for anonymous callers and 403 otherwise.
func (h *Http) Error(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *errs.ValidationError
	var kindErr *errs.Error
	msg := ""
	if errors.As(err, &kindErr) {
		msg = kindErr.Msg
	}
	switch {
	case errors.As(err, &validationErr):
		h.UnprocessableEntity(w, r, validationErr.Fields)
	case errors.Is(err, errs.ErrInvalidCredentials):
		h.Unauthorized(w, r, msg)
	case errors.Is(err, errs.ErrUnauthorized):
		if principalFromContext(r.Context()) == nil {
			h.Unauthorized(w, r, "Authentication required")
			return
		}
		h.Forbidden(w, r, msg)
	case errors.Is(err, errs.ErrNotFound):
		h.NotFound(w, r, msg)
	case errors.Is(err, errs.ErrConflict):
		h.Conflict(w, r, msg)
	case errors.Is(err, errs.ErrStoreUnavailable):
		h.ServiceUnavailable(w, r, err)
	default:
		h.ServerError(w, r, err, "")
	}
}
