package treedoc

import (
	"log/slog"

	"github.com/sokinpui/treedoc/internal/consolidate"
	"github.com/sokinpui/treedoc/internal/restore"
)

// Fatal setup errors. Per-file failures never surface as errors; they are
// written to the run's log file and listed in the result.
var (
	ErrInvalidRoot  = consolidate.ErrInvalidRoot
	ErrOpenDocument = restore.ErrOpenDocument
)

type (
	ConsolidateResult = consolidate.Result
	RestoreResult     = restore.Result
)

// Config for using treedoc as a library.
type Config struct {
	// LogPath is the error log file. Empty picks the default location.
	LogPath string
	// OutputDir is where Restore writes files (default "rebuild").
	OutputDir string
	// Extensions limits both operations to these file extensions.
	Extensions []string
	// Logger receives debug records in addition to the error log.
	Logger *slog.Logger
}

// Consolidate writes every text file under root into one document at
// output and returns the document and error log locations.
func Consolidate(root, output string, config Config) (ConsolidateResult, error) {
	opts := []consolidate.Option{
		consolidate.WithLogPath(config.LogPath),
		consolidate.WithExtensions(config.Extensions),
	}
	if config.Logger != nil {
		opts = append(opts, consolidate.WithLogger(config.Logger))
	}
	return consolidate.Run(root, output, opts...)
}

// Restore rebuilds the tree described by the document at path.
func Restore(document string, config Config) (RestoreResult, error) {
	opts := []restore.Option{
		restore.WithOutputDir(config.OutputDir),
		restore.WithExtensions(config.Extensions),
	}
	if config.Logger != nil {
		opts = append(opts, restore.WithLogger(config.Logger))
	}
	return restore.RunFile(document, config.LogPath, opts...)
}
