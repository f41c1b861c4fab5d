package errlog

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entryRe = regexp.MustCompile(`^\d{2}-[A-Z][a-z]{2}-\d{2} \d{2}:\d{2}:\d{2} - Failed to consolidate: /src/logo\.png\nError: Not a text file\n$`)

func TestHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil))

	Failure(logger, "consolidate", "/src/logo.png", errors.New("Not a text file"))
	assert.Regexp(t, entryRe, buf.String())
}

func TestHandlerDropsBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelError))

	logger.Info("consolidating directory", "root", "/src")
	logger.Debug("skipped", "path", "/src/link")
	assert.Empty(t, buf.String())
}

func TestHandlerExtraAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelInfo)).With("run", 3)

	logger.Info("restoring document", "output", "rebuild")
	assert.True(t, strings.HasSuffix(buf.String(), " - restoring document run=3 output=rebuild\n"), buf.String())
}

func TestOpenCreatesParentAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nested", "run.log")

	f, err := Open(path)
	require.NoError(t, err)
	Failure(f.Logger(), "restore", "rebuild/a.txt", errors.New("permission denied"))
	require.NoError(t, f.Close())

	f, err = Open(path)
	require.NoError(t, err)
	Failure(f.Logger(), "restore", "rebuild/b.txt", errors.New("is a directory"))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], " - Failed to restore: rebuild/a.txt")
	assert.Equal(t, "Error: permission denied", lines[1])
	assert.Contains(t, lines[2], " - Failed to restore: rebuild/b.txt")
	assert.Equal(t, "Error: is a directory", lines[3])
}

func TestTee(t *testing.T) {
	var errs, debug bytes.Buffer
	logger := Tee(
		NewHandler(&errs, slog.LevelError),
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)

	logger.Debug("skipped non-regular file", "path", "/src/link")
	Failure(logger, "consolidate", "/src/x", errors.New("boom"))

	assert.Equal(t, 1, strings.Count(errs.String(), "Failed to consolidate"))
	assert.NotContains(t, errs.String(), "skipped")
	assert.Contains(t, debug.String(), "skipped non-regular file")
	assert.Contains(t, debug.String(), "Failed to consolidate")
}

func TestCloseNil(t *testing.T) {
	var f *File
	assert.NoError(t, f.Close())
}
