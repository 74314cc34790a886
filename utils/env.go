package utils

import (
	"os"
	"strings"
)

const DefaultUserAgent = "IPTV Smarters/1.0.3 (iPad; iOS 16.6.1; Scale/2.00)"

// LookupEnvTrimmed returns the trimmed value of env and whether it is set to
// something other than blanks.
func LookupEnvTrimmed(env string) (string, bool) {
	value, exists := os.LookupEnv(env)
	if !exists {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// SplitList splits a comma separated value, dropping blank items.
func SplitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
