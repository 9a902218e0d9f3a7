package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLogLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_AddsContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "info", "production")
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, uint(7))
	logger.With(slog.String("component", "test")).InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, float64(7), record["user_id"])
	assert.Equal(t, "test", record["component"])
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn", "production")
	require.NoError(t, err)

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestRepoLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "debug", "production")
	require.NoError(t, err)

	NewRepoLogger(logger, "posts").LogError(context.Background(), errors.New("boom"), "delete")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "posts", record["table"])
	assert.Equal(t, "delete", record["operation"])
	assert.Equal(t, "boom", record["error"])
}
