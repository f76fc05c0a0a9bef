package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/phishguard/internal/logging"
)

func TestLogrusLogger_WritesJSONWithComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewLogrusLogger("scanner", logging.Options{Output: &buf})

	l.Info("scan finished", logging.Field{Key: "risk_level", Value: "HIGH"}, logging.Field{Key: "error", Value: errors.New("boom")})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scan finished", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "scanner", entry["component"])
	assert.Equal(t, "HIGH", entry["risk_level"])
	assert.Equal(t, "boom", entry["error"])
}

func TestLogrusLogger_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewLogrusLogger("x", logging.Options{Output: &buf, Level: "warn"})

	l.Debug("hidden")
	l.Info("hidden too")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogrusLogger_WithKeepsPersistentFields(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewLogrusLogger("server", logging.Options{Output: &buf})

	child := l.With(logging.Field{Key: "session_id", Value: "abc"})
	child.Error("scan failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["session_id"])
	assert.Equal(t, "server", entry["component"])
}
