package log

import (
	"io"
	"log/slog"
	"os"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog"

	"github.com/minminkikiki/kaia-sdk/config"
)

func NewLogger(cfg *config.Config) *slog.Logger {
	return NewLoggerTo(os.Stderr, cfg)
}

// NewLoggerTo is NewLogger writing to w.
func NewLoggerTo(w io.Writer, cfg *config.Config) *slog.Logger {
	var zerologLogger zerolog.Logger
	if cfg.GetLogFormat() == "json" {
		zerologLogger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		zerologLogger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger()
	}
	return slog.New(slogzerolog.Option{Level: cfg.GetLogLevel(), Logger: &zerologLogger}.NewZerologHandler())
}
