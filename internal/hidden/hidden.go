// Package hidden decides whether a file counts as hidden on the host
// platform. The implementation is picked at build time.
package hidden

import (
	"path/filepath"
	"strings"
)

// Func reports whether the file at path is hidden.
type Func func(path string) bool

// dotPrefixed reports whether the base name of path starts with a dot.
func dotPrefixed(path string) bool {
	name := filepath.Base(filepath.Clean(path))
	return name != "." && name != ".." && strings.HasPrefix(name, ".")
}
