package logging

import (
	"log/slog"
	"testing"

	"github.com/atlanticdynamic/hydrogen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupHandlerText(t *testing.T) {
	buf := testutil.NewLogBuffer()
	handler := SetupHandlerText("debug", buf)
	require.NotNil(t, handler)

	logger := slog.New(handler)
	logger.Debug("visible at debug")
	assert.Contains(t, buf.String(), "visible at debug")
}

func TestSetupHandlerTextLevelFiltering(t *testing.T) {
	buf := testutil.NewLogBuffer()
	logger := slog.New(SetupHandlerText("error", buf))

	logger.Info("filtered")
	logger.Error("kept")

	out := buf.String()
	assert.NotContains(t, out, "filtered")
	assert.Contains(t, out, "kept")
}

func TestSetupHandlerJSON(t *testing.T) {
	buf := testutil.NewLogBuffer()
	logger := slog.New(SetupHandlerJSON("info", buf))

	logger.Info("structured", "key", "value")

	out := buf.String()
	assert.Contains(t, out, `"msg":"structured"`)
	assert.Contains(t, out, `"key":"value"`)
}

func TestSetupHandlerJSONUnknownLevelDefaultsToInfo(t *testing.T) {
	buf := testutil.NewLogBuffer()
	logger := slog.New(SetupHandlerJSON("bogus", buf))

	logger.Debug("filtered")
	logger.Info("kept")

	out := buf.String()
	assert.NotContains(t, out, "filtered")
	assert.Contains(t, out, "kept")
}
