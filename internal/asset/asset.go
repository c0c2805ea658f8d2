// Package asset builds public URLs for pre-rendered building images.
package asset

import "strings"

// DefaultImageExt is appended to a building code when no extension is set.
const DefaultImageExt = ".png"

// ImageURL returns <base>/<code><ext>, or "" when base is empty. A missing
// leading dot on ext is added.
func ImageURL(base, code, ext string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	code = strings.TrimSpace(code)
	if base == "" || code == "" {
		return ""
	}
	if ext == "" {
		ext = DefaultImageExt
	} else if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return base + "/" + code + ext
}
