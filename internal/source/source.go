package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/treedoc/internal/parser"
)

// Kind names where a document was read from.
type Kind string

const (
	KindFile      Kind = "file"
	KindStdin     Kind = "stdin"
	KindClipboard Kind = "clipboard"
)

// SourceProvider determines and retrieves a consolidation document.
type SourceProvider struct {
	stdin         *os.File
	readClipboard func() (string, error)
}

// New creates a new SourceProvider reading os.Stdin and the system clipboard.
func New() *SourceProvider {
	return &SourceProvider{stdin: os.Stdin, readClipboard: clipboard.ReadAll}
}

// GetContent retrieves a document from stdin (if piped) or the clipboard.
// Content from either is unwrapped from a surrounding markdown code fence.
func (sp *SourceProvider) GetContent() (string, Kind, error) {
	if sp.isPiped() {
		content, err := io.ReadAll(sp.stdin)
		if err != nil {
			return "", KindStdin, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(parser.Unwrap(content)), KindStdin, nil
	}

	content, err := sp.readClipboard()
	if err != nil {
		return "", KindClipboard, fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return "", KindClipboard, nil
	}
	return string(parser.Unwrap([]byte(content))), KindClipboard, nil
}

func (sp *SourceProvider) isPiped() bool {
	if sp.stdin == nil {
		return false
	}
	stat, err := sp.stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// Publish copies a finished document to the clipboard.
func Publish(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}
	return nil
}
