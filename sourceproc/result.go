package sourceproc

import "m3u-playlist-merger/m3u"

// SourceResult is the outcome of reading one source: either the channels it
// contained or the reason it contributed nothing.
type SourceResult struct {
	Source   string
	Remote   bool
	Channels []m3u.Channel
	Err      error
}

func (r SourceResult) OK() bool {
	return r.Err == nil
}
