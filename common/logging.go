package common

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// LoggingOpts controls how SetupLogger builds the process logger.
type LoggingOpts struct {
	Debug   bool
	JSON    bool
	Service string
	Version string

	// UID attaches a random uuid to every record, useful when several
	// server instances write into the same file.
	UID bool

	// Writer receives the formatted records. Defaults to os.Stdout.
	Writer io.Writer
}

// SetupLogger returns a slog logger configured from opts. Records are
// always timestamped and tagged with the service and version.
func SetupLogger(opts *LoggingOpts) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Debug {
		logLevel = slog.LevelDebug
	}

	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	logger := slog.New(handler)
	if opts.Service != "" {
		logger = logger.With("service", opts.Service)
	}
	if opts.Version != "" {
		logger = logger.With("version", opts.Version)
	}
	if opts.UID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

// OpenLogFile opens path for appending, creating it if needed, and returns
// a writer that duplicates everything to stdout as well.
func OpenLogFile(path string) (io.Writer, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return io.MultiWriter(f, os.Stdout), f, nil
}
