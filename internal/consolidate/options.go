package consolidate

import (
	"log/slog"
	"time"

	"github.com/sokinpui/treedoc/internal/errlog"
	"github.com/sokinpui/treedoc/internal/fs"
	"github.com/sokinpui/treedoc/internal/hidden"
)

// Option configures Run.
type Option func(*config)

type config struct {
	logPath    string
	logger     *slog.Logger
	isHidden   hidden.Func
	extensions []string
	progress   func(done int, path string)
	now        func() time.Time
}

func newConfig(opts []Option) config {
	cfg := config{
		isHidden: hidden.IsHidden,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// loggerWith returns the logger for one run: the error log file, plus the
// caller's logger when one was supplied.
func (c config) loggerWith(f *errlog.File) *slog.Logger {
	if c.logger == nil {
		return f.Logger()
	}
	return errlog.Tee(f.Logger().Handler(), c.logger.Handler())
}

// WithLogPath sets the error log file. By default a timestamped
// consolidation_log_*.txt is created next to the output document.
func WithLogPath(path string) Option {
	return func(c *config) {
		c.logPath = path
	}
}

// WithLogger mirrors all records (including debug output) to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHiddenFunc overrides the platform hidden-file check.
func WithHiddenFunc(fn hidden.Func) Option {
	return func(c *config) {
		if fn != nil {
			c.isHidden = fn
		}
	}
}

// WithExtensions limits consolidation to files with one of the given
// extensions ("go" and ".go" are equivalent).
func WithExtensions(exts []string) Option {
	return func(c *config) {
		c.extensions = fs.NormalizeExtensions(exts)
	}
}

// WithProgress registers a callback invoked after each file block.
func WithProgress(fn func(done int, path string)) Option {
	return func(c *config) {
		c.progress = fn
	}
}

// WithClock overrides the clock used for the default log file name.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}
