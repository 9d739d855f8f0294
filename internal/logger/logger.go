// Package logger provides structured logging using zerolog, matching the
// format used across the rest of the stack.
package logger

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const runIDKey contextKey = "run_id"

const milliTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Init initializes the global logger with proper configuration based on
// the given level and dev-mode flag.
func Init(level string, devMode bool) {
	zerolog.TimeFieldFormat = milliTimeFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }

	const callerWidth = 30
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		path := fmt.Sprintf("%s:%d", filepath.Base(file), line)
		if len(path) >= callerWidth {
			return path[len(path)-callerWidth:]
		}
		return path + strings.Repeat(" ", callerWidth-len(path))
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var output io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: milliTimeFormat,
		NoColor:    !devMode,
	}

	log.Logger = log.Output(output).With().Caller().Logger()
	log.Info().Str("level", lvl.String()).Bool("dev", devMode).Msg("logger initialized")
}

// Get returns the global logger instance.
func Get() zerolog.Logger {
	return log.Logger
}

// NewRunID generates a random 8-character alphanumeric string identifying
// one engine run, for correlating log lines and action-log entries.
func NewRunID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 8

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("run%06d", time.Now().UnixNano()%1000000)
	}
	for i := range b {
		b[i] = charset[b[i]%byte(len(charset))]
	}
	return string(b)
}

// WithRunID returns a new context carrying the given run ID.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run ID from context, or "".
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// ForRun returns a logger enriched with the run ID from context.
func ForRun(ctx context.Context) zerolog.Logger {
	id := RunIDFromContext(ctx)
	if id == "" {
		return log.Logger
	}
	return log.Logger.With().Str("runId", id).Logger()
}

// LogAgentRequest logs a dispatched agent request at debug level,
// truncating an oversized context payload.
func LogAgentRequest(logger zerolog.Logger, factionID string, requestType string, payload string) {
	if len(payload) > 1000 {
		logger.Debug().Str("faction", factionID).Str("request_type", requestType).
			Str("context", payload[:1000]).Bool("truncated", true).Msg("agent request")
		return
	}
	logger.Debug().Str("faction", factionID).Str("request_type", requestType).
		Str("context", payload).Msg("agent request")
}

// LogAgentResponse logs a received agent response at debug level,
// truncating an oversized payload.
func LogAgentResponse(logger zerolog.Logger, factionID string, payload string) {
	if len(payload) > 1000 {
		logger.Debug().Str("faction", factionID).Str("response", payload[:1000]).Bool("truncated", true).Msg("agent response")
		return
	}
	logger.Debug().Str("faction", factionID).Str("response", payload).Msg("agent response")
}
