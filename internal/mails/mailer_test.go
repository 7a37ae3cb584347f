package mails

import (
	"strings"
	"testing"
	"time"

	"streamhub/proj/internal/lib/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWelcomeTemplate(t *testing.T) {
	parts, err := parseEmailTmpl("user_welcome.tmpl", map[string]any{
		"email":       "user@example.com",
		"profileName": "Profile 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to StreamHub!", parts["subject"])
	assert.Contains(t, parts["plainBody"], "user@example.com")
	assert.True(t, strings.Contains(parts["htmlBody"], "Profile 1"))
}

func TestUnknownTemplate(t *testing.T) {
	_, err := parseEmailTmpl("missing.tmpl", nil)
	assert.Error(t, err)
	assert.Error(t, Noop{Log: logger.Discard()}.Send("user@example.com", "missing.tmpl", nil))
}

func TestNewDefaults(t *testing.T) {
	m := New("localhost", 2525, time.Second, "user", "pass", "StreamHub <no-reply@streamhub.local>", 0)
	assert.Equal(t, 1, m.RetriesCount)
	assert.Equal(t, "user", m.Dialer.Username)
	assert.Equal(t, time.Second, m.Dialer.Timeout)
}
