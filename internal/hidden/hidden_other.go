//go:build !windows

package hidden

// IsHidden reports whether path is hidden: its base name starts with a dot.
func IsHidden(path string) bool {
	return dotPrefixed(path)
}
