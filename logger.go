package chartexport

import (
	"log/slog"

	"github.com/gogpu/chartexport/internal/logging"
)

// SetLogger configures the logger for chartexport and all its sub-packages.
// By default, chartexport produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by chartexport:
//   - [slog.LevelDebug]: per-stage timings, buffer sizes, block placement
//   - [slog.LevelInfo]: job start and finish, page counts
//   - [slog.LevelWarn]: skipped charts, restore failures
//
// Example:
//
//	chartexport.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by chartexport.
// The returned logger is never nil.
func Logger() *slog.Logger {
	return logging.Logger()
}
