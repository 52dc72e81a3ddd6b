package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/learnquest/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNewJSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("achievement unlocked", zap.Int("id", 5))
	require.NoError(t, closeFn())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "achievement unlocked", entry["msg"])
	assert.EqualValues(t, 5, entry["id"])
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learnquest.log")
	logger, closeFn, err := New(config.LoggingConfig{Level: "debug", Format: "console", File: path, MaxSizeMB: 1}, nil)
	require.NoError(t, err)

	logger.Debug("session saved", zap.String("key", "abc"))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session saved")
	assert.Contains(t, string(data), "abc")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New(config.LoggingConfig{Level: "loud"}, nil)
	assert.Error(t, err)
}
