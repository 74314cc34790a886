package sourceproc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"m3u-playlist-merger/config"
	"m3u-playlist-merger/logger"
	"m3u-playlist-merger/m3u"
	"m3u-playlist-merger/utils"

	"github.com/spf13/afero"
)

// SourceReader turns one playlist source into channels.
type SourceReader interface {
	Read(ctx context.Context, source string) SourceResult
}

type Reader struct {
	client    *http.Client
	fs        afero.Fs
	userAgent string
	logger    logger.Logger
}

func NewReader(cfg *config.Config, fs afero.Fs, log logger.Logger) *Reader {
	return &Reader{
		client:    utils.NewHTTPClient(cfg.FetchTimeout, cfg.UserAgent),
		fs:        fs,
		userAgent: cfg.UserAgent,
		logger:    log,
	}
}

// Read fetches and parses source. It never fails the run: any retrieval
// problem is reported through SourceResult.Err with no channels.
func (r *Reader) Read(ctx context.Context, source string) SourceResult {
	source = strings.TrimSpace(source)
	result := SourceResult{Source: source, Remote: utils.IsRemoteSource(source)}

	if source == "" {
		result.Err = fmt.Errorf("empty source")
		return result
	}

	var content string
	var err error
	if result.Remote {
		content, err = r.fetchRemote(ctx, source)
	} else {
		content, err = r.readLocal(source)
	}

	if err != nil {
		r.logger.Warnf("Skipped broken playlist: %s (%v)", source, err)
		result.Err = err
		return result
	}

	if result.Remote {
		r.logger.Logf("Loaded playlist: %s", source)
	} else {
		r.logger.Logf("Loaded local file: %s", source)
	}

	channels, err := m3u.Parse(strings.NewReader(content))
	if err != nil {
		r.logger.Warnf("Playlist %s partially parsed: %v", source, err)
	}
	r.logger.Debugf("Parsed %d channels from %s", len(channels), source)

	result.Channels = channels
	return result
}

func (r *Reader) fetchRemote(ctx context.Context, source string) (string, error) {
	resp, err := utils.CustomHttpRequest(ctx, r.client, http.MethodGet, source, r.userAgent)
	if err != nil {
		return "", fmt.Errorf("HTTP GET error: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	return string(body), nil
}

// readLocal reads a playlist from the filesystem, silently dropping bytes
// that are not valid UTF-8.
func (r *Reader) readLocal(source string) (string, error) {
	data, err := afero.ReadFile(r.fs, utils.LocalSourcePath(source))
	if err != nil {
		return "", fmt.Errorf("error opening local file: %w", err)
	}

	return strings.ToValidUTF8(string(data), ""), nil
}
