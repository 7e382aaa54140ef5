package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw    string
		want   zerolog.Level
		wantOK bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, true},
		{" WARNING ", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"verbose", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseLevel(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNew_JSON(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogJSON, "")

	var buf bytes.Buffer
	logger := New("livepose", Config{Level: zerolog.InfoLevel, JSON: true, Out: &buf})

	logger.Debug().Msg("hidden")
	logger.Info().Int("bones", 3).Msg("pose applied")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "livepose", line["app"])
	assert.Equal(t, "pose applied", line["message"])
	assert.Equal(t, float64(3), line["bones"])
}

func TestNew_EnvOverridesLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogJSON, "true")

	var buf bytes.Buffer
	logger := New("livepose", Config{Level: zerolog.DebugLevel, Out: &buf})
	logger.Info().Msg("hidden")

	assert.Empty(t, buf.String())
	assert.Equal(t, zerolog.ErrorLevel, logger.GetLevel())
}
