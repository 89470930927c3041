package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with timestamp formatting, filtering at debug
// level when --verbose is set.
func newLogger(w io.Writer, app *App) *log.Logger {
	level := log.InfoLevel
	if app.Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// newTUILogger logs to a file inside the store dir: writing to stderr would
// corrupt the alt screen while the TUI owns the terminal.
func newTUILogger(app *App) *log.Logger {
	f, err := os.OpenFile(filepath.Join(app.Dir, "postgrid.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return newLogger(io.Discard, app)
	}
	return newLogger(f, app)
}
