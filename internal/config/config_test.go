package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yml := `output: dist/project.txt
log: dist/consolidate.log
rebuild_dir: restored
extensions: [go, md]
no_tui: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yml), 0o644))

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, Config{
		Output:     "dist/project.txt",
		Log:        "dist/consolidate.log",
		RebuildDir: "restored",
		Extensions: []string{"go", "md"},
		NoTUI:      true,
	}, cfg)
}

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)

	_, err = Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("extensions: {oops"), 0o644))

	_, err := Load(dir, p)
	assert.ErrorContains(t, err, "config: parse")
}
