package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(buf *bytes.Buffer) *Logger {
	return &Logger{Logger: zerolog.New(buf)}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := bufferLogger(&buf)
	fallback := Nop()

	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	ctx := base.WithRequestID("req-1").Into(context.Background())
	FromContext(ctx, fallback).Info().Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "hello", line["message"])
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	bufferLogger(&buf).WithComponent("ai").WithSource("rss", "pulse").Warn().Msg("x")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ai", line["component"])
	assert.Equal(t, "rss", line["source_type"])
	assert.Equal(t, "pulse", line["source_name"])
	assert.Equal(t, "warn", line["level"])
}

func TestNew_DefaultsToInfo(t *testing.T) {
	l := New(Config{Level: "nonsense", Format: "json"})
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}
