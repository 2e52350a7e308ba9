package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "AI Tools Poll Results", cfg.SpreadsheetTitle)
	assert.Equal(t, "credentials.json", cfg.CredentialsFile)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.CreateIfMissing)
	assert.False(t, cfg.AllowHeaderReset, "the destructive header reset must be opt-in")
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("SPREADSHEET_TITLE", "Team Poll")
	t.Setenv("SHEETS_ALLOW_HEADER_RESET", "true")
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("HTTP_ADDR", ":9000")

	cfg := NewConfig()

	assert.Equal(t, "Team Poll", cfg.SpreadsheetTitle)
	assert.True(t, cfg.AllowHeaderReset)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
}

func TestNewConfigIgnoresInvalidValues(t *testing.T) {
	t.Setenv("SHEETS_CREATE_IF_MISSING", "definitely")
	t.Setenv("CACHE_TTL_SECONDS", "soon")

	cfg := NewConfig()

	assert.True(t, cfg.CreateIfMissing)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
}
