// Package consolidate walks a directory tree and writes every regular file
// into a single annotated text document.
package consolidate

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/sokinpui/treedoc/internal/errlog"
	"github.com/sokinpui/treedoc/internal/format"
	"github.com/sokinpui/treedoc/internal/fs"
	"github.com/sokinpui/treedoc/model"
)

// ErrInvalidRoot is returned when the root path is missing or not a directory.
var ErrInvalidRoot = errors.New("not a valid directory")

// errNotText is logged for files whose bytes are not valid UTF-8.
var errNotText = errors.New(format.NotTextReason)

// Result describes a finished consolidation.
type Result struct {
	OutputPath string
	LogPath    string
	// Files lists the relative paths written with their content.
	Files []string
	// Failed lists the paths that were logged to the error log.
	Failed []string
	// Skipped lists relative paths left out by the extension filter.
	Skipped []string
}

// Run consolidates root into output and returns where the document and the
// error log were written. Per-file problems are logged and never abort the
// run; only setup failures (bad root, unwritable output or log) are returned.
func Run(root, output string, opts ...Option) (Result, error) {
	cfg := newConfig(opts)

	info, err := os.Stat(root)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Result{}, fmt.Errorf("could not resolve root '%s': %w", root, err)
	}

	if output == "" {
		output = "."
	}
	outputPath := fs.ResolveOutputPath(output)
	logPath := cfg.logPath
	if logPath == "" {
		logPath = fs.ConsolidationLogPath(outputPath, cfg.now())
	}

	if err := fs.EnsureParentDir(outputPath); err != nil {
		return Result{}, err
	}
	logFile, err := errlog.Open(logPath)
	if err != nil {
		return Result{}, err
	}
	defer logFile.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return Result{}, fmt.Errorf("could not create output file: %w", err)
	}

	c := &consolidator{
		cfg:     cfg,
		root:    absRoot,
		exclude: []string{outputPath, logPath},
		doc:     format.NewWriter(out),
		logger:  cfg.loggerWith(logFile),
		result:  Result{OutputPath: outputPath, LogPath: logPath},
	}
	c.logger.Info("consolidating directory", "root", root, "output", outputPath, "log", logPath)

	c.doc.Header(root)
	c.walk(absRoot, ".")

	if err := c.doc.Flush(); err != nil {
		out.Close()
		return c.result, fmt.Errorf("could not write output file: %w", err)
	}
	if err := out.Close(); err != nil {
		return c.result, fmt.Errorf("could not write output file: %w", err)
	}

	c.logger.Debug("consolidation finished", "files", len(c.result.Files), "failed", len(c.result.Failed))
	return c.result, nil
}

type consolidator struct {
	cfg     config
	root    string
	exclude []string
	doc     *format.Writer
	logger  *slog.Logger
	result  Result
}

// walk emits the directory marker for dir, then every regular file directly
// inside it, then descends into its subdirectories. Entries are visited in
// name order.
func (c *consolidator) walk(dir, rel string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		c.fail(dir, err)
		return
	}

	if rel != "." {
		c.doc.Directory(rel)
	}

	var subdirs []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		relPath := filepath.Join(rel, e.Name())

		switch {
		case e.IsDir():
			subdirs = append(subdirs, e.Name())
		case e.Type().IsRegular():
			c.file(path, relPath)
		default:
			c.logger.Debug("skipped non-regular file", "path", path, "mode", e.Type().String())
		}
	}

	for _, name := range subdirs {
		c.walk(filepath.Join(dir, name), filepath.Join(rel, name))
	}
}

func (c *consolidator) file(path, rel string) {
	for _, ex := range c.exclude {
		if fs.SamePath(path, ex) {
			c.logger.Debug("skipped own output", "path", path)
			return
		}
	}
	if !fs.HasAllowedExtension(rel, c.cfg.extensions) {
		c.result.Skipped = append(c.result.Skipped, rel)
		return
	}

	rec := model.FileRecord{
		RelativePath: rel,
		FullPath:     path,
		Hidden:       c.cfg.isHidden(path),
	}
	c.doc.BeginFile(rec)

	data, err := os.ReadFile(path)
	switch {
	case err != nil:
		c.doc.ReadError(err)
		c.fail(path, err)
	case !utf8.Valid(data):
		c.doc.NotText()
		c.fail(path, errNotText)
	default:
		c.doc.Content(data)
		c.result.Files = append(c.result.Files, rel)
	}
	c.doc.EndFile()

	if c.cfg.progress != nil {
		c.cfg.progress(len(c.result.Files)+len(c.result.Failed), rel)
	}
}

func (c *consolidator) fail(path string, err error) {
	errlog.Failure(c.logger, "consolidate", path, err)
	c.result.Failed = append(c.result.Failed, path)
}
