package log_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/scoreprep/pkg/log"
)

func TestToLogLevel(t *testing.T) {
	assert.Equal(t, "debug", log.ToLogLevel("DEBUG").String())
	assert.Equal(t, "warn", log.ToLogLevel("warning").String())
	assert.Equal(t, "error", log.ToLogLevel("error").String())
	assert.Equal(t, "info", log.ToLogLevel("bogus").String())
}

func TestConsoleLoggerWritesTimestampedLines(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewZerologLogger(&buf, log.ToLogLevel("info"))

	logger.Info("Data ingestion started", log.PathKey, "stud.csv")
	logger.Debug("hidden")

	out := buf.String()
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} INF Data ingestion started`), out)
	assert.Contains(t, out, "data.path=stud.csv")
	assert.NotContains(t, out, "hidden")
}

func TestJSONLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewJSONLogger(&buf, log.ToLogLevel("debug")).
		With(log.ComponentKey, "ingestion")

	logger.Error("Error occurred during data ingestion", log.ErrorKey, errors.New("boom"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "ingestion", line[log.ComponentKey])
	assert.Equal(t, "boom", line[log.ErrorKey])
	assert.Equal(t, "Error occurred during data ingestion", line["message"])
}

func TestLogFileName(t *testing.T) {
	start := time.Date(2026, 10, 16, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "log_20261016_090507_abcdef12.log",
		log.LogFileName(start, "abcdef12-3456-7890-abcd-ef1234567890"))
}

func TestNewRunLoggerCreatesUniqueFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	l1, c1, err := log.NewRunLogger(dir, log.ToLogLevel("info"))
	require.NoError(t, err)
	l2, c2, err := log.NewRunLogger(dir, log.ToLogLevel("info"))
	require.NoError(t, err)

	l1.Info("first run")
	l2.Info("second run")
	require.NoError(t, c1.Close())
	require.NoError(t, c2.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), log.RunIDKey+"=")
	assert.True(t, strings.HasPrefix(entries[0].Name(), "log_"))
}

func TestNopDiscards(t *testing.T) {
	logger := log.Nop().With("k", "v")
	logger.Info("nothing")
	logger.Error("nothing")
}
