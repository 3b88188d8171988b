// Package log provides the structured logger used across scoreprep.
//
// Loggers are explicit values: the entry point creates one with NewRunLogger
// (a uniquely named file per run) and hands it to each stage. Nothing in this
// package holds process-wide state.
//
// Example:
//
//	logger, closer, err := log.NewRunLogger("logs", log.ToLogLevel("info"))
//	if err != nil {
//		return err
//	}
//	defer closer.Close()
//	logger.Info("Data ingestion started", log.PathKey, cfg.SourcePath)
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger is the logging interface accepted by every stage and estimator.
// Fields are alternating key/value pairs.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

// Level mirrors zerolog levels.
type Level = zerolog.Level

// ToLogLevel parses a level name, defaulting to info.
func ToLogLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// TimeFormat is the timestamp layout written at the start of each line.
const TimeFormat = "2006-01-02 15:04:05"

type zerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger writes human-readable, timestamped lines to w.
func NewZerologLogger(w io.Writer, level Level) Logger {
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: TimeFormat}
	return &zerologLogger{zl: zerolog.New(out).Level(level).With().Timestamp().Logger()}
}

// NewJSONLogger writes one JSON object per line to w.
func NewJSONLogger(w io.Writer, level Level) Logger {
	return &zerologLogger{zl: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &zerologLogger{zl: zerolog.Nop()}
}

// LogFileName returns the per-run file name for the given start time and
// run id.
func LogFileName(start time.Time, runID string) string {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("log_%s_%s.log", start.Format("20060102_150405"), short)
}

// NewRunLogger creates dir if needed and opens a uniquely named log file for
// this run. The returned logger carries the run id on every line; close the
// returned io.Closer when the run ends.
func NewRunLogger(dir string, level Level) (Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	runID := uuid.NewString()
	path := filepath.Join(dir, LogFileName(time.Now(), runID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := NewZerologLogger(f, level).With(RunIDKey, runID)
	return logger, f, nil
}

func (l *zerologLogger) Debug(msg string, fields ...interface{}) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Info(msg string, fields ...interface{}) {
	l.zl.Info().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, fields ...interface{}) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Error(msg string, fields ...interface{}) {
	l.zl.Error().Fields(fields).Msg(msg)
}

func (l *zerologLogger) With(fields ...interface{}) Logger {
	return &zerologLogger{zl: l.zl.With().Fields(fields).Logger()}
}
