package m3u

// Channel is one playable playlist entry.
type Channel struct {
	Name    string
	LogoURL string
	Group   string
	URL     string
}
