package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = "# Root Directory: /src\n\n\n# File: a.txt\n# --- Start of file content ---\nhi\n# --- End of file content ---\n"

func pipeWith(t *testing.T, content string) *os.File {
	t.Helper()
	p := filepath.Join(t.TempDir(), "stdin")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	f, err := os.Open(p)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestGetContentFromStdin(t *testing.T) {
	sp := &SourceProvider{
		stdin:         pipeWith(t, "```\n"+doc+"```\n"),
		readClipboard: func() (string, error) { return "", errors.New("must not be called") },
	}

	content, kind, err := sp.GetContent()
	require.NoError(t, err)
	assert.Equal(t, KindStdin, kind)
	assert.Equal(t, doc, content)
}

func TestGetContentFromClipboard(t *testing.T) {
	sp := &SourceProvider{
		readClipboard: func() (string, error) { return "Sure, here it is:\n\n```text\n" + doc + "```\n", nil },
	}

	content, kind, err := sp.GetContent()
	require.NoError(t, err)
	assert.Equal(t, KindClipboard, kind)
	assert.Equal(t, doc, content)
}

func TestGetContentEmptyClipboard(t *testing.T) {
	sp := &SourceProvider{readClipboard: func() (string, error) { return "  \n", nil }}

	content, _, err := sp.GetContent()
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestGetContentClipboardError(t *testing.T) {
	sp := &SourceProvider{readClipboard: func() (string, error) { return "", errors.New("no clipboard utility") }}

	_, _, err := sp.GetContent()
	assert.ErrorContains(t, err, "failed to read from clipboard")
}
