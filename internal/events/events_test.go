package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/lib/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutURLIsNoop(t *testing.T) {
	p := New(logger.Discard(), "")
	assert.IsType(t, Noop{}, p)
	assert.NoError(t, p.PublishViewRecorded(context.Background(), models.ViewLogEntry{ID: "x"}))
	assert.NoError(t, p.Close())
}

func TestEncodeEnvelope(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b, err := encode(SubjectViewRecorded, at, models.ViewLogEntry{ID: "01H", ContentID: "c1"})
	require.NoError(t, err)

	var got struct {
		Type       string              `json:"type"`
		Version    string              `json:"version"`
		OccurredAt time.Time           `json:"occurredAt"`
		Payload    models.ViewLogEntry `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, SubjectViewRecorded, got.Type)
	assert.Equal(t, "1.0.0", got.Version)
	assert.True(t, at.Equal(got.OccurredAt))
	assert.Equal(t, "c1", got.Payload.ContentID)
}
