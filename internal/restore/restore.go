// Package restore rebuilds a directory tree from a consolidation document.
package restore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sokinpui/treedoc/internal/errlog"
	"github.com/sokinpui/treedoc/internal/fs"
	"github.com/sokinpui/treedoc/internal/parser"
	"github.com/sokinpui/treedoc/model"
)

// DefaultOutputDir is where files are restored unless WithOutputDir is given.
const DefaultOutputDir = "rebuild"

// ErrOpenDocument is returned when the consolidation document cannot be read.
var ErrOpenDocument = errors.New("could not open consolidated document")

// Result describes a finished restoration.
type Result struct {
	model.Summary
	// Root is the original root named in the document header.
	Root      string
	OutputDir string
	LogPath   string
	// Actions maps each written path to fs.ActionCreate or fs.ActionModify.
	Actions map[string]string
}

// RunFile restores the document at docPath. An empty logPath defaults to
// restoration_log.txt next to the document.
func RunFile(docPath, logPath string, opts ...Option) (Result, error) {
	f, err := os.Open(docPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrOpenDocument, err)
	}
	defer f.Close()

	if logPath == "" {
		logPath = fs.RestoreLogPath(docPath)
	}
	return Run(f, logPath, opts...)
}

// Run restores the document read from r. Failures are written to logPath;
// an empty logPath sends them only to the logger given with WithLogger.
// Per-file write failures never abort the run.
func Run(r io.Reader, logPath string, opts ...Option) (Result, error) {
	cfg := newConfig(opts)

	logger := cfg.logger
	if logPath != "" {
		logFile, err := errlog.Open(logPath)
		if err != nil {
			return Result{}, err
		}
		defer logFile.Close()
		logger = cfg.loggerWith(logFile)
	}

	rs := &restorer{
		cfg:    cfg,
		logger: logger,
		result: Result{
			OutputDir: cfg.outputDir,
			LogPath:   logPath,
			Actions:   make(map[string]string),
		},
	}
	logger.Info("restoring document", "output", cfg.outputDir, "log", logPath)

	doc, err := parser.Parse(r, rs.write)
	rs.result.Root = doc.Root
	if err != nil {
		return rs.result, fmt.Errorf("%w: %w", ErrOpenDocument, err)
	}

	logger.Debug("restoration finished", "root", doc.Root, "records", doc.Files, "failed", len(rs.result.Failed))
	return rs.result, nil
}

type restorer struct {
	cfg    config
	logger *slog.Logger
	result Result
	done   int
}

// write stores one record under the output directory, overwriting whatever
// is there. A path that appears twice in a document is written twice; the
// last record wins.
func (rs *restorer) write(rec model.FileRecord) {
	if !fs.HasAllowedExtension(rec.RelativePath, rs.cfg.extensions) {
		rs.result.Skipped = append(rs.result.Skipped, rec.RelativePath)
		return
	}

	target, err := fs.SafeJoin(rs.cfg.outputDir, rec.RelativePath)
	if err != nil {
		rs.fail(filepath.Join(rs.cfg.outputDir, rec.RelativePath), err)
		return
	}

	_, seen := rs.result.Actions[target]
	action := fs.FileAction(target)

	if action == fs.ActionModify && !seen && rs.cfg.backupDir != "" {
		backup, err := fs.SafeJoin(rs.cfg.backupDir, rec.RelativePath)
		if err == nil {
			err = fs.CopyFile(target, backup)
		}
		if err != nil {
			rs.fail(target, fmt.Errorf("could not back up existing file: %w", err))
			return
		}
	}

	if err := fs.EnsureParentDir(target); err != nil {
		rs.fail(target, err)
		return
	}
	if err := os.WriteFile(target, rec.Content, 0o644); err != nil {
		rs.fail(target, err)
		return
	}

	if !seen {
		rs.result.Actions[target] = action
		if action == fs.ActionCreate {
			rs.result.Created = append(rs.result.Created, target)
		} else {
			rs.result.Modified = append(rs.result.Modified, target)
		}
	}

	rs.done++
	if rs.cfg.progress != nil {
		rs.cfg.progress(rs.done, rec.RelativePath)
	}
}

func (rs *restorer) fail(path string, err error) {
	errlog.Failure(rs.logger, "restore", path, err)
	rs.result.Failed = append(rs.result.Failed, path)
}
