package m3u

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	HeaderDirective = "#EXTM3U"
	InfoDirective   = "#EXTINF"

	// UnknownName is used when an #EXTINF line carries no display name.
	UnknownName = "Unknown"

	maxLineSize = 1024 * 1024
)

var (
	// attributeRegex matches M3U attributes in the format key="value"
	attributeRegex = regexp.MustCompile(`([a-zA-Z0-9_-]+)="([^"]*)"`)
)

// Parse reads an M3U playlist and returns its channels in file order. An
// #EXTINF line only becomes a channel once a URL line follows it. On a read
// error the channels collected so far are returned along with the error.
func Parse(r io.Reader) ([]Channel, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var channels []Channel
	var pending *Channel

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, InfoDirective):
			info := parseInfoLine(line)
			pending = &info
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case pending != nil:
			pending.URL = line
			channels = append(channels, *pending)
			pending = nil
		}
	}

	if err := scanner.Err(); err != nil {
		return channels, fmt.Errorf("error reading content: %w", err)
	}

	return channels, nil
}

// ParseString is Parse over an in-memory playlist.
func ParseString(content string) []Channel {
	channels, _ := Parse(strings.NewReader(content))
	return channels
}

// parseInfoLine extracts the display name, logo and group of an #EXTINF line.
func parseInfoLine(line string) Channel {
	var info Channel
	var logoSet, groupSet bool

	for _, match := range attributeRegex.FindAllStringSubmatch(line, -1) {
		value := strings.TrimSpace(match[2])

		switch strings.ToLower(match[1]) {
		case "tvg-logo":
			if !logoSet {
				info.LogoURL = value
				logoSet = true
			}
		case "group-title":
			if !groupSet {
				info.Group = value
				groupSet = true
			}
		}
	}

	if idx := strings.LastIndex(line, ","); idx != -1 {
		info.Name = strings.TrimSpace(line[idx+1:])
	} else {
		info.Name = UnknownName
	}

	return info
}
