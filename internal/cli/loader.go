package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/theothertored/keyframelinker/internal/document"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeNotFound    = "E001" // Description or document path not found
	ErrCodeDescription = "E002" // Description load/validation failed
	ErrCodeDocument    = "E003" // Document open/build failed
	ErrCodeExists      = "E004" // Target document already exists
)

// newLogger builds the CLI logger: a text handler on stderr, debug
// level under --verbose. Library packages receive it via options so
// JSON output on stdout stays clean.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// openDocument opens an existing animation document. A missing file is
// a command error rather than a fresh document: every command except
// import expects the document to already exist.
func openDocument(path string, log *slog.Logger) (*document.Document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("document not found: %s", path))
	}

	doc, err := document.Open(path, document.WithLogger(log))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open document", err)
	}
	return doc, nil
}
