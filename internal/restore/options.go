package restore

import (
	"log/slog"

	"github.com/sokinpui/treedoc/internal/errlog"
	"github.com/sokinpui/treedoc/internal/fs"
)

// Option configures Run and RunFile.
type Option func(*config)

type config struct {
	outputDir  string
	backupDir  string
	logger     *slog.Logger
	extensions []string
	progress   func(done int, path string)
}

func newConfig(opts []Option) config {
	cfg := config{outputDir: DefaultOutputDir}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

func (c config) loggerWith(f *errlog.File) *slog.Logger {
	return errlog.Tee(f.Logger().Handler(), c.logger.Handler())
}

// WithOutputDir sets the directory files are restored under.
func WithOutputDir(dir string) Option {
	return func(c *config) {
		if dir != "" {
			c.outputDir = dir
		}
	}
}

// WithBackupDir copies every file about to be overwritten into dir, keeping
// its relative path, before writing the restored content.
func WithBackupDir(dir string) Option {
	return func(c *config) {
		c.backupDir = dir
	}
}

// WithLogger mirrors all records to logger. Without a log path it is the
// only destination for failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithExtensions restores only files with one of the given extensions.
func WithExtensions(exts []string) Option {
	return func(c *config) {
		c.extensions = fs.NormalizeExtensions(exts)
	}
}

// WithProgress registers a callback invoked after each written file.
func WithProgress(fn func(done int, path string)) Option {
	return func(c *config) {
		c.progress = fn
	}
}
