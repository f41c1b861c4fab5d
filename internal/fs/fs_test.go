package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOutputPath(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, filepath.Join(dir, DefaultOutputName), ResolveOutputPath(dir))

	file := filepath.Join(dir, "out.txt")
	assert.Equal(t, file, ResolveOutputPath(file))
}

func TestConsolidationLogPath(t *testing.T) {
	now := time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC)
	got := ConsolidationLogPath(filepath.Join("out", "doc.txt"), now)
	assert.Equal(t, filepath.Join("out", "consolidation_log_20240309_070501.txt"), got)
}

func TestSafeJoin(t *testing.T) {
	base := filepath.Join("rebuild")
	tests := []struct {
		name    string
		rel     string
		want    string
		wantErr bool
	}{
		{"simple", "a.txt", filepath.Join(base, "a.txt"), false},
		{"nested slash", "src/pkg/x.go", filepath.Join(base, "src", "pkg", "x.go"), false},
		{"backslash", `src\x.go`, filepath.Join(base, "src", "x.go"), false},
		{"hidden", ".secret", filepath.Join(base, ".secret"), false},
		{"inner dotdot", "a/../b.txt", filepath.Join(base, "b.txt"), false},
		{"escape", "../etc/passwd", "", true},
		{"absolute", "/etc/passwd", "", true},
		{"empty", "", "", true},
		{"dot", ".", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeJoin(base, tt.rel)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsafePath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCopyFileAndHash(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	dst := filepath.Join(dir, "nested", "deeper", "dst.txt")
	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	h1, err := GetFileSHA256(src)
	require.NoError(t, err)
	h2, err := GetFileSHA256(dst)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", h1)
}

func TestFileAction(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "x")
	assert.Equal(t, ActionCreate, FileAction(p))
	require.NoError(t, os.WriteFile(p, nil, 0o644))
	assert.Equal(t, ActionModify, FileAction(p))
}

func TestExtensions(t *testing.T) {
	exts := NormalizeExtensions([]string{"go", ".md", " ", "txt"})
	assert.Equal(t, []string{".go", ".md", ".txt"}, exts)

	assert.True(t, HasAllowedExtension("a/b.go", exts))
	assert.False(t, HasAllowedExtension("a/b.py", exts))
	assert.True(t, HasAllowedExtension("anything", nil))
}
