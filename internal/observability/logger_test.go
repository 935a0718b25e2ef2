package observability

import (
	"log/slog"
	"testing"

	"github.com/couchcryptid/rwh-feasibility-service/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := NewLogger(&config.Config{LogLevel: "warn", LogFormat: "text"})
	assert.IsType(t, &slog.TextHandler{}, logger.Handler())
	assert.False(t, logger.Handler().Enabled(t.Context(), slog.LevelInfo))

	logger = NewLogger(&config.Config{LogLevel: "debug", LogFormat: "json"})
	assert.IsType(t, &slog.JSONHandler{}, logger.Handler())
	assert.Same(t, logger, slog.Default())
}
