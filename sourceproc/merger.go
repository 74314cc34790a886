package sourceproc

import (
	"context"
	"strings"

	"m3u-playlist-merger/config"
	"m3u-playlist-merger/m3u"
)

// Merger folds source results into one deduplicated channel list. Channels
// are keyed by lowercased name; a channel is dropped only when a channel
// with the same key and the same stream URL was already kept.
type Merger struct {
	sportsKeywords []string
	sportsLogo     string
}

func NewMerger(cfg *config.Config) *Merger {
	keywords := make([]string, 0, len(cfg.SportsKeywords))
	for _, kw := range cfg.SportsKeywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	return &Merger{
		sportsKeywords: keywords,
		sportsLogo:     cfg.SportsLogo,
	}
}

// MergeSources reads every non-blank source in order and merges the
// results. The per-source results are returned alongside for reporting.
func (m *Merger) MergeSources(ctx context.Context, reader SourceReader, sources []string) ([]m3u.Channel, []SourceResult) {
	results := make([]SourceResult, 0, len(sources))
	for _, src := range sources {
		if strings.TrimSpace(src) == "" {
			continue
		}
		results = append(results, reader.Read(ctx, src))
	}

	return m.Merge(results), results
}

func (m *Merger) Merge(results []SourceResult) []m3u.Channel {
	combined := []m3u.Channel{}
	seen := make(map[string]map[string]struct{})

	for _, result := range results {
		if !result.OK() || len(result.Channels) == 0 {
			continue
		}

		for _, ch := range result.Channels {
			nameLower := strings.ToLower(strings.TrimSpace(ch.Name))
			url := strings.TrimSpace(ch.URL)

			if strings.TrimSpace(ch.LogoURL) == "" && m.isSports(nameLower) {
				ch.LogoURL = m.sportsLogo
			}

			urls, exists := seen[nameLower]
			if !exists {
				seen[nameLower] = map[string]struct{}{url: {}}
				combined = append(combined, ch)
				continue
			}

			if _, dup := urls[url]; dup {
				continue
			}
			urls[url] = struct{}{}
			combined = append(combined, ch)
		}
	}

	return combined
}

// isSports reports whether a lowercased channel name mentions any sports keyword.
func (m *Merger) isSports(nameLower string) bool {
	for _, kw := range m.sportsKeywords {
		if strings.Contains(nameLower, kw) {
			return true
		}
	}
	return false
}
