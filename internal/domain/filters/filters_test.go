package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveLimit(t *testing.T) {
	assert.Equal(t, DefaultContentLimit, (&ContentFilters{}).EffectiveLimit())
	assert.Equal(t, 5, (&ContentFilters{Limit: 5}).EffectiveLimit())
	assert.Equal(t, MaxContentLimit, (&ContentFilters{Limit: 1000}).EffectiveLimit())
}

func TestSortColumn(t *testing.T) {
	assert.Equal(t, "created_at", (&ContentFilters{}).SortColumn())
	assert.Equal(t, "updated_at", (&ContentFilters{NewEpisodes: true}).SortColumn())
}
