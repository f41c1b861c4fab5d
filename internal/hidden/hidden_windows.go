//go:build windows

package hidden

import "golang.org/x/sys/windows"

// IsHidden reports whether path carries FILE_ATTRIBUTE_HIDDEN. Dot-prefixed
// names are treated as hidden too, since tools ported from unix rely on it.
func IsHidden(path string) bool {
	if dotPrefixed(path) {
		return true
	}
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
