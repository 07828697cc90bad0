// Package logger configures the global zerolog logger and provides the
// gin request logging middleware.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls Init. A zero value logs at info to stderr.
type Options struct {
	Level   string
	File    string
	Console bool // human-readable output instead of JSON on stderr
}

// Init replaces the global logger. The returned closer flushes and closes
// the log file, if any.
func Init(opts Options) (io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var stderr io.Writer = os.Stderr
	if opts.Console {
		stderr = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	if opts.File == "" {
		log.Logger = zerolog.New(stderr).With().Timestamp().Logger()
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, err
	}
	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(stderr, file)).With().Timestamp().Logger()
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// GinMiddleware logs one line per request through zerolog.
func GinMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		ev := log.Info()
		switch {
		case param.StatusCode >= 500:
			ev = log.Error()
		case param.StatusCode >= 400:
			ev = log.Warn()
		}
		ev.Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("http_request")
		return ""
	})
}
