package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"streamhub/proj/internal/lib/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/schema"
)

func (app *Application) extractIDParam(w http.ResponseWriter, r *http.Request, name string) (id string, extracted bool) {
	raw := chi.URLParam(r, name)
	if _, err := uuid.Parse(raw); err != nil {
		app.Http.BadRequest(w, r, fmt.Sprintf("invalid %s", name))
		return "", false
	}
	return raw, true
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

// readValidJSON decodes the body into dst and validates it. On failure the
// response is already written and false is returned.
func (app *Application) readValidJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := app.readJSON(w, r, dst); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return false
	}
	if errs := validator.ValidateStruct(app.validator, dst); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return false
	}
	return true
}

// readQuery decodes url query params into dst with gorilla/schema and validates it.
func (app *Application) readQuery(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := app.decoder.Decode(dst, r.URL.Query()); err != nil {
		var multi schema.MultiError
		if errors.As(err, &multi) {
			fields := make(map[string]string, len(multi))
			for key := range multi {
				fields[key] = "Value is invalid"
			}
			app.Http.UnprocessableEntity(w, r, fields)
			return false
		}
		app.Http.BadRequest(w, r, err.Error())
		return false
	}
	if errs := validator.ValidateStruct(app.validator, dst); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return false
	}
	return true
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &maxBytesError):
		return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}
