package common

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Binary size units used by FormatFileSize.
const (
	KiB int64 = 1024
	MiB       = 1024 * KiB
	GiB       = 1024 * MiB
)

// FormatFileSize formats a size in bytes for display: plain bytes below
// 1 KiB, otherwise the largest binary unit reached with two decimals.
func FormatFileSize(size int64) string {
	switch {
	case size < KiB:
		return fmt.Sprintf("%d bytes", size)
	case size < MiB:
		return fmt.Sprintf("%.2f KB", float64(size)/float64(KiB))
	case size < GiB:
		return fmt.Sprintf("%.2f MB", float64(size)/float64(MiB))
	default:
		return fmt.Sprintf("%.2f GB", float64(size)/float64(GiB))
	}
}

// IsSingleElement reports whether name refers to a direct child of a
// directory: non-empty, no separators, and not "." or "..".
func IsSingleElement(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		return false
	}
	return !strings.Contains(name, "\x00")
}

// NormalizePath returns an absolute, cleaned form of path.
func NormalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(abs)
}
