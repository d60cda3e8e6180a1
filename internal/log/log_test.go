package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateHandler(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"text debug", "debug", TextFormat},
		{"logfmt info", "info", LogfmtFormat},
		{"json warn", "warn", JSONFormat},
		{"empty format defaults to text", "error", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h, err := CreateHandler(&buf, tt.level, tt.format)
			require.NoError(t, err)

			slog.New(h).Error("boom", "key", "value")
			assert.Contains(t, buf.String(), "boom")
		})
	}
}

func TestCreateHandler_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	h, err := CreateHandler(&buf, "warn", TextFormat)
	require.NoError(t, err)

	logger := slog.New(h)
	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestCreateHandler_Errors(t *testing.T) {
	var buf bytes.Buffer

	_, err := CreateHandler(&buf, "shout", TextFormat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	_, err = CreateHandler(&buf, "info", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}
