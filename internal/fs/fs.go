package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultOutputName is used when the output path names a directory.
	DefaultOutputName = "consolidated_output.txt"
	// RestoreLogName is the restore log created next to the document.
	RestoreLogName = "restoration_log.txt"

	ActionCreate = "create"
	ActionModify = "modify"
)

// ErrUnsafePath is returned for document paths that would land outside the
// restore directory.
var ErrUnsafePath = errors.New("path escapes the output directory")

// ResolveOutputPath appends DefaultOutputName when output is an existing
// directory.
func ResolveOutputPath(output string) string {
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, DefaultOutputName)
	}
	return output
}

// ConsolidationLogPath returns the default log path for a consolidation
// writing to outputPath: a timestamped file in the same directory.
func ConsolidationLogPath(outputPath string, now time.Time) string {
	name := fmt.Sprintf("consolidation_log_%s.txt", now.Format("20060102_150405"))
	return filepath.Join(filepath.Dir(outputPath), name)
}

// RestoreLogPath returns the default log path for restoring docPath.
func RestoreLogPath(docPath string) string {
	return filepath.Join(filepath.Dir(docPath), RestoreLogName)
}

// EnsureParentDir creates the directory chain above path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create directory '%s': %w", dir, err)
	}
	return nil
}

// SafeJoin joins a document-relative path onto base. Both slash styles are
// accepted in rel. Absolute paths and paths climbing out of base are
// rejected with ErrUnsafePath.
func SafeJoin(base, rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.ReplaceAll(rel, `\`, "/")))
	if rel == "" || clean == "." || !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	return filepath.Join(base, clean), nil
}

// SamePath reports whether a and b name the same location once made
// absolute.
func SamePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return false
	}
	return absA == absB
}

// FileAction returns ActionModify when path exists and ActionCreate
// otherwise.
func FileAction(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return ActionCreate
	}
	return ActionModify
}

// GetFileSHA256 returns the hex SHA256 of the file at path.
func GetFileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// CopyFile copies src to dst, creating dst's parent directories.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := EnsureParentDir(dst); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// NormalizeExtensions prefixes each extension with a dot when missing.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if ext[0] != '.' {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// HasAllowedExtension reports whether path matches one of extensions. An
// empty list allows everything.
func HasAllowedExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, allowedExt := range extensions {
		if ext == allowedExt {
			return true
		}
	}
	return false
}
