package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestRowProgressThrottles(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	p := NewRowProgress(logger, "read", time.Hour)
	for i := 0; i < 100; i++ {
		p.Accept()
	}
	p.Skip()

	entries := logLines(t, &buf)
	require.Len(t, entries, 1, "only the first tick logs within the interval")
	assert.Equal(t, "Reading scan rows", entries[0]["message"])

	buf.Reset()
	p.Finish()
	entries = logLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, 101.0, entries[0]["rows"])
	assert.Equal(t, 100.0, entries[0]["accepted"])
	assert.Equal(t, 1.0, entries[0]["skipped"])
}

func TestRowProgressFinishAndFail(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)

	p := NewRowProgress(logger, "read", time.Hour)
	p.Accept()
	p.Finish()
	p.Fail(errors.New("boom"))

	entries := logLines(t, &buf)
	require.Len(t, entries, 2, "debug progress is filtered at info level")
	assert.Equal(t, "Phase completed", entries[0]["message"])
	assert.Equal(t, float64(1), entries[0]["accepted"])
	assert.Equal(t, "Phase failed", entries[1]["message"])
	assert.Equal(t, "boom", entries[1]["error"])
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	_, err := Setup(&bytes.Buffer{}, "chatty", false)
	assert.Error(t, err)
}

func TestSetupJSONAndForRun(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var buf bytes.Buffer
	logger, err := Setup(&buf, "info", true)
	require.NoError(t, err)

	runLogger := ForRun(logger, "run-1", "scan.csv")
	runLogger.Info().Msg("hello")
	logger.Debug().Msg("dropped")

	entries := logLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "run-1", entries[0]["run_id"])
	assert.Equal(t, "scan.csv", entries[0]["file"])
}
