package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvestline/agriconsole/internal/logging"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var entries []map[string]interface{}

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}

	return entries
}

func TestLogger_Levels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.New(&buf, zerolog.InfoLevel)

	logger.Debug("hidden", nil)
	logger.Info("Request completed", map[string]interface{}{"status": 200})
	logger.Warn("Retrying request", map[string]interface{}{"attempt": 1, "delay_ms": 1000})
	logger.Error("Request failed", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 3)

	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "Request completed", entries[0]["message"])
	assert.InDelta(t, 200, entries[0]["status"], 0)

	assert.Equal(t, "warn", entries[1]["level"])
	assert.InDelta(t, 1000, entries[1]["delay_ms"], 0)

	assert.Equal(t, "error", entries[2]["level"])
}

func TestLogger_WithComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logging.New(&buf, zerolog.DebugLevel).WithComponent("executor").Debug("tick", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "executor", entries[0][logging.FieldComponent])
}

func TestNop(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		logging.Nop().Error("ignored", map[string]interface{}{"k": "v"})
	})
}
