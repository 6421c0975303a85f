package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelWarn,
		"warn":  slog.LevelWarn,
		"DEBUG": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"error": slog.LevelError,
	}

	for in, want := range tests {
		level, err := ParseLevel(in)

		require.NoError(t, err, in)
		assert.Equal(t, want, level, in)
	}

	_, err := ParseLevel("fatal")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(&buf, "info", "json")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("wsdl loaded", "port", "DuckService")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "wsdl loaded", record["msg"])
	assert.Equal(t, "DuckService", record["port"])

	buf.Reset()

	logger, err = New(&buf, "warn", "text")
	require.NoError(t, err)

	logger.Warn("fault", "code", "Server")
	assert.Contains(t, buf.String(), "code=Server")

	_, err = New(&buf, "info", "xml")
	assert.Error(t, err)
}
