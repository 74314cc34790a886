package utils

import (
	"strings"
)

const fileScheme = "file://"

// IsRemoteSource reports whether source should be fetched over HTTP.
func IsRemoteSource(source string) bool {
	lower := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// LocalSourcePath turns a local source into a filesystem path, accepting
// both plain paths and file:// URLs.
func LocalSourcePath(source string) string {
	source = strings.TrimSpace(source)
	if len(source) >= len(fileScheme) && strings.EqualFold(source[:len(fileScheme)], fileScheme) {
		return source[len(fileScheme):]
	}
	return source
}
