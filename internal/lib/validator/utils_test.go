package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type episodeInput struct {
	Title      string `json:"title" validate:"required"`
	ServerType string `json:"serverType" validate:"servertype"`
}

type seasonInput struct {
	Episodes []episodeInput `json:"episodes" validate:"dive"`
}

type sample struct {
	Email       string        `json:"email" validate:"required,email"`
	Role        string        `json:"role" validate:"required,role"`
	Type        string        `json:"type" validate:"contenttype"`
	ReleaseYear int           `json:"releaseYear" validate:"gte=1888"`
	Password    string        `json:"password" validate:"min=8" errorMsg:"Password is too short"`
	Seasons     []seasonInput `json:"seasons" validate:"dive"`
}

func TestValidateStruct(t *testing.T) {
	v := New()
	errs := ValidateStruct(v, sample{
		Email:       "nope",
		Role:        "ROOT",
		Type:        "PODCAST",
		ReleaseYear: 1500,
		Password:    "short",
		Seasons:     []seasonInput{{Episodes: []episodeInput{{Title: "", ServerType: "FTP"}}}},
	})
	assert.Equal(t, "Value must be a valid email address", errs["email"])
	assert.Equal(t, "Value must be one of MEMBER, STAFF, MANAGER, ADMIN, OWNER", errs["role"])
	assert.Equal(t, "Value must be one of MOVIE, SERIES", errs["type"])
	assert.Equal(t, "Value should be greater than or equal to 1888", errs["releaseYear"])
	assert.Equal(t, "Password is too short", errs["password"])
	assert.Equal(t, "This field is required", errs["seasons[0].episodes[0].title"])
	assert.Equal(t, "Value must be one of GOOGLE_DRIVE, VIDMOLY, CUSTOM", errs["seasons[0].episodes[0].serverType"])
}

func TestValidateStructOk(t *testing.T) {
	v := New()
	errs := ValidateStruct(v, sample{
		Email:       "a@b.co",
		Role:        "STAFF",
		Type:        "MOVIE",
		ReleaseYear: 2001,
		Password:    "longenough",
	})
	assert.Nil(t, errs)
}
