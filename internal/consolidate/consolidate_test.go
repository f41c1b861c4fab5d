package consolidate

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestRunDocumentLayout(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt":       "hello",
		".secret":     "token",
		"sub/b.txt":   "b\n",
		"sub/c/d.txt": "d",
		"z.txt":       "z",
	})
	out := filepath.Join(t.TempDir(), "out", "doc.txt")

	res, err := Run(root, out, WithLogPath(filepath.Join(t.TempDir(), "log.txt")))
	require.NoError(t, err)
	assert.Equal(t, out, res.OutputPath)
	assert.Empty(t, res.Failed)
	assert.Equal(t, []string{".secret", "a.txt", "z.txt", filepath.Join("sub", "b.txt"), filepath.Join("sub", "c", "d.txt")}, res.Files)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc := string(data)

	assert.True(t, strings.HasPrefix(doc, "# Root Directory: "+root+"\n\n"))
	assert.Contains(t, doc, "\n# File: .secret\n# Full path: "+filepath.Join(root, ".secret")+"\n# Hidden: Yes\n"+
		"# --- Start of file content ---\ntoken\n# --- End of file content ---\n")
	assert.Contains(t, doc, "\n# File: a.txt\n# Full path: "+filepath.Join(root, "a.txt")+"\n# Hidden: No\n")
	assert.Contains(t, doc, "\n# Directory: sub\n")
	assert.Contains(t, doc, "\n# Directory: "+filepath.Join("sub", "c")+"\n")
	assert.Equal(t, 5, strings.Count(doc, "\n# File: "))
	assert.Equal(t, 5, strings.Count(doc, "# --- End of file content ---"))
	assert.NotContains(t, doc, "# Directory: .\n")

	// Files of a directory come before its subdirectories.
	assert.Less(t, strings.Index(doc, "# File: z.txt"), strings.Index(doc, "# Directory: sub"))
	assert.Less(t, strings.Index(doc, "# File: "+filepath.Join("sub", "b.txt")), strings.Index(doc, "# Directory: "+filepath.Join("sub", "c")))
}

func TestRunBinaryFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"ok.txt":   "fine",
		"logo.png": "\x89PNG\r\n\x1a\n\x00\xff\xfe",
	})
	outDir := t.TempDir()
	logPath := filepath.Join(outDir, "errors.log")

	res, err := Run(root, filepath.Join(outDir, "doc.txt"), WithLogPath(logPath))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "logo.png")}, res.Failed)
	assert.Equal(t, []string{"ok.txt"}, res.Files)

	doc, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "# --- Start of file content ---\n"+
		"# This file is not a text file and its content cannot be displayed here.\n"+
		"\n# --- End of file content ---\n")

	logData, err := os.ReadFile(logPath)
	require.NoError(t, err)
	log := string(logData)
	assert.Equal(t, 1, strings.Count(log, "Failed to consolidate: "))
	assert.Contains(t, log, "Failed to consolidate: "+filepath.Join(root, "logo.png")+"\nError: Not a text file\n")
}

func TestRunUnreadableFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{"locked.txt": "secret"})
	require.NoError(t, os.Chmod(filepath.Join(root, "locked.txt"), 0o000))

	outDir := t.TempDir()
	res, err := Run(root, outDir, WithLogPath(filepath.Join(outDir, "log.txt")))
	require.NoError(t, err)
	require.Len(t, res.Failed, 1)

	doc, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "# Error reading file: ")
	assert.Contains(t, string(doc), "permission denied")
}

func TestRunOutputDirectoryGetsDefaultName(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "a"})
	outDir := t.TempDir()
	clock := func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local) }

	res, err := Run(root, outDir, WithClock(clock))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "consolidated_output.txt"), res.OutputPath)
	assert.Equal(t, filepath.Join(outDir, "consolidation_log_20250102_030405.txt"), res.LogPath)
	assert.FileExists(t, res.OutputPath)
	assert.FileExists(t, res.LogPath)
}

func TestRunSkipsOwnOutput(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "a"})

	res, err := Run(root, root, WithLogPath(filepath.Join(root, "logs", "log.txt")))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, res.Files)

	doc, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.NotContains(t, string(doc), "# File: consolidated_output.txt")
	assert.NotContains(t, string(doc), "log.txt")
}

func TestRunInvalidRoot(t *testing.T) {
	dir := t.TempDir()
	_, err := Run(filepath.Join(dir, "missing"), dir)
	assert.ErrorIs(t, err, ErrInvalidRoot)

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = Run(file, dir)
	assert.ErrorIs(t, err, ErrInvalidRoot)
}

func TestRunSkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{"real.txt": "real"})
	require.NoError(t, os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")))

	outDir := t.TempDir()
	res, err := Run(root, outDir, WithLogPath(filepath.Join(outDir, "log.txt")))
	require.NoError(t, err)
	assert.Equal(t, []string{"real.txt"}, res.Files)
}

func TestRunOptions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":   "package main",
		"README.md": "# readme",
		"notes.txt": "skip me",
	})
	outDir := t.TempDir()

	var seen []string
	res, err := Run(root, outDir,
		WithLogPath(filepath.Join(outDir, "log.txt")),
		WithExtensions([]string{"go", "md"}),
		WithHiddenFunc(func(string) bool { return true }),
		WithProgress(func(_ int, path string) { seen = append(seen, path) }),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "main.go"}, res.Files)
	assert.Equal(t, []string{"notes.txt"}, res.Skipped)
	assert.Equal(t, res.Files, seen)

	doc, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(doc), "# Hidden: Yes"))
	assert.NotContains(t, string(doc), "skip me")
}
