package common

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunIDFromContext(t *testing.T) {
	assert.Empty(t, RunIDFromContext(context.Background()))
	assert.Equal(t, "run-1", RunIDFromContext(WithRunID(context.Background(), "run-1")))
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	stored := slog.New(slog.NewTextHandler(&buf, nil)).With("run_id", "run-1")
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	assert.Same(t, fallback, LoggerFromContext(context.Background(), fallback))
	assert.Same(t, slog.Default(), LoggerFromContext(context.Background(), nil))

	LoggerFromContext(WithLogger(context.Background(), stored), fallback).Info("page processed")
	assert.Contains(t, buf.String(), "run_id=run-1")
}
