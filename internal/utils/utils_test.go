package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelToSnake(t *testing.T) {
	cases := map[string]string{
		"Title":       "title",
		"ReleaseYear": "release_year",
		"VideoURL":    "video_url",
		"ID":          "id",
		"episodeId":   "episode_id",
	}
	for in, want := range cases {
		assert.Equal(t, want, CamelToSnake(in), in)
	}
}
