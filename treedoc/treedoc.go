package treedoc

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/sokinpui/treedoc/cli"
	"github.com/sokinpui/treedoc/internal/consolidate"
	"github.com/sokinpui/treedoc/internal/fs"
	"github.com/sokinpui/treedoc/internal/restore"
	"github.com/sokinpui/treedoc/internal/source"
	"github.com/sokinpui/treedoc/internal/state"
	"github.com/sokinpui/treedoc/model"
)

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(done int, path string)

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	logger           *slog.Logger
	sourceProvider   *source.SourceProvider
	newStateManager  func() (*state.Manager, error)
	progressCallback ProgressUpdate
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance.
func New(cfg *cli.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("missing configuration")
	}

	logger := slog.New(slog.DiscardHandler)
	if cfg.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		sourceProvider:  source.New(),
		newStateManager: state.New,
	}, nil
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb func(done int, path string)) {
	a.progressCallback = cb
}

// Execute executes the main application logic based on parsed flags.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	switch {
	case a.cfg.Revert:
		return a.revertLastRestore()
	case a.cfg.Restore:
		return a.restoreDocument()
	default:
		return a.consolidateTree()
	}
}

// consolidateTree writes the configured root into a single document.
func (a *App) consolidateTree() (model.Summary, error) {
	res, err := consolidate.Run(a.cfg.Root, a.cfg.Output,
		consolidate.WithLogPath(a.cfg.Log),
		consolidate.WithLogger(a.logger),
		consolidate.WithExtensions(a.cfg.Extensions),
		consolidate.WithProgress(a.progressCallback),
	)
	if err != nil {
		return model.Summary{}, err
	}

	msg := fmt.Sprintf("All files consolidated into %s with directory structure comments\nCheck %s for any errors encountered during consolidation",
		res.OutputPath, res.LogPath)
	if a.cfg.Clipboard {
		if err := source.Publish(res.OutputPath); err != nil {
			msg += "\nCould not copy the document to the clipboard: " + err.Error()
		} else {
			msg += "\nThe document was copied to the clipboard."
		}
	}

	summary := model.Summary{
		Created: []string{res.OutputPath},
		Skipped: res.Skipped,
		Failed:  res.Failed,
		Message: msg,
	}
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

// restoreDocument rebuilds the tree from a document file, piped stdin or
// the clipboard, recording what it wrote so it can be reverted.
func (a *App) restoreDocument() (model.Summary, error) {
	sm, err := a.newStateManager()
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to initialize state manager: %w", err)
	}
	ts, backupDir := sm.Begin()

	outputDir := a.cfg.Dest
	if outputDir == "" {
		outputDir = restore.DefaultOutputDir
	}
	opts := []restore.Option{
		restore.WithOutputDir(outputDir),
		restore.WithBackupDir(backupDir),
		restore.WithLogger(a.logger),
		restore.WithExtensions(a.cfg.Extensions),
		restore.WithProgress(a.progressCallback),
	}

	var res restore.Result
	if a.cfg.Document != "" {
		res, err = restore.RunFile(a.cfg.Document, a.cfg.Log, opts...)
	} else {
		content, kind, serr := a.sourceProvider.GetContent()
		if serr != nil {
			return model.Summary{}, serr
		}
		if content == "" {
			return model.Summary{Message: fmt.Sprintf("The %s is empty. Nothing to restore.", kind)}, nil
		}
		logPath := a.cfg.Log
		if logPath == "" {
			logPath = fs.RestoreLogName
		}
		res, err = restore.Run(strings.NewReader(content), logPath, opts...)
	}
	if err != nil {
		return model.Summary{}, err
	}

	if werr := sm.Write(ts, sm.CreateOperations(res.Actions, outputDir, backupDir)); werr != nil {
		a.logger.Warn("restore history not saved", "error", werr)
	}

	summary := res.Summary
	summary.Message = fmt.Sprintf("File structure restored in %s\nCheck %s for any errors encountered during restoration",
		outputDir, res.LogPath)
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

// revertLastRestore undoes the files written by the previous restore.
func (a *App) revertLastRestore() (model.Summary, error) {
	sm, err := a.newStateManager()
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to initialize state manager: %w", err)
	}

	if len(sm.History()) == 0 {
		return model.Summary{Message: "No restore to revert."}, nil
	}

	reverted, failed, err := sm.RevertLast()
	if err != nil {
		return model.Summary{}, err
	}

	summary := model.Summary{
		Modified: reverted,
		Failed:   failed,
		Message:  "Reverted last restore.",
	}
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

// relativizeSummaryPaths converts absolute file paths in a summary to be
// relative to the current working directory for cleaner display.
func (a *App) relativizeSummaryPaths(summary *model.Summary) {
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	makeRelative := func(paths []string) []string {
		out := make([]string, len(paths))
		for i, p := range paths {
			if !filepath.IsAbs(p) {
				out[i] = p
				continue
			}
			rel, err := filepath.Rel(wd, p)
			if err != nil || strings.HasPrefix(rel, "..") {
				out[i] = p
			} else {
				out[i] = rel
			}
		}
		return out
	}

	summary.Created = makeRelative(summary.Created)
	summary.Modified = makeRelative(summary.Modified)
	summary.Failed = makeRelative(summary.Failed)
}
