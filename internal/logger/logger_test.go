package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerFailureLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithConfig(LogConfig{Level: "INFO", Format: "json", Output: &buf}))

	ctx := WithRunID(context.Background(), "run-1")
	TickerFailure(ctx, "AAA", "ProviderError", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"ticker":"AAA"`)
	assert.Contains(t, out, `"kind":"ProviderError"`)
	assert.Contains(t, out, `"run_id":"run-1"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithConfig(LogConfig{Level: "INFO", Format: "text", Output: &buf}))

	Debug(context.Background(), "hidden")
	Info(context.Background(), "shown", "k", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.False(t, IsDebugEnabled())
}

func TestDetailedLoggingAddsSource(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithConfig(LogConfig{Level: "INFO", Format: "json", DetailedLogging: true, Output: &buf}))
	defer func() { _ = InitWithConfig(LogConfig{Level: "INFO", Output: &bytes.Buffer{}}) }()

	Debug(context.Background(), "visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "logger_test.go")
}

func TestOperationTimerWithoutTracing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithConfig(LogConfig{Level: "INFO", Format: "text", Output: &buf}))

	op := StartOperation(context.Background(), "calendar.fetch", "week", "2025-09-22 to 2025-09-28", "rows", 3)
	assert.NotNil(t, op.GetContext())
	op.EndWithError(errors.New("down"))
	assert.Contains(t, buf.String(), "Operation failed")
	assert.Contains(t, buf.String(), "calendar.fetch")
}
