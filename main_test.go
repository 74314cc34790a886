package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"m3u-playlist-merger/logger"
	"m3u-playlist-merger/m3u"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T, sources ...string) {
	for _, key := range []string{
		"CONFIG_FILE", "PLAYLIST_URL_1", "PLAYLIST_URL_2", "PLAYLIST_URL_3",
		"OUTPUT_PATH", "SPORTS_LOGO", "SPORTS_KEYWORDS", "FETCH_TIMEOUT",
		"SYNC_CRON", "SYNC_ON_BOOT", "PROMO_NAME", "PROMO_LOGO", "PROMO_GROUP", "PROMO_URL",
	} {
		t.Setenv(key, "")
	}
	for i, src := range sources {
		t.Setenv("PLAYLIST_URL_"+strconv.Itoa(i+1), src)
	}
}

func quietLogger() logger.Logger {
	return logger.New(io.Discard, false, false)
}

func TestRun_MergesSources(t *testing.T) {
	playlist := "#EXTM3U\n#EXTINF:-1 tvg-logo=\"\" group-title=\"Sports\",ESPN\nhttp://a/1\n"
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(playlist))
	})
	serverA := httptest.NewServer(handler)
	defer serverA.Close()
	serverB := httptest.NewServer(handler)
	defer serverB.Close()

	setupEnv(t, serverA.URL, serverB.URL)
	fs := afero.NewMemMapFs()

	require.NoError(t, run(context.Background(), fs, quietLogger()))

	data, err := afero.ReadFile(fs, "playlist.m3u")
	require.NoError(t, err)

	channels := m3u.ParseString(string(data))
	require.Len(t, channels, 2)
	assert.Equal(t, "HOME CHANNEL", channels[0].Name)
	assert.Equal(t, "ESPN", channels[1].Name)
	assert.Equal(t, "https://i.postimg.cc/rwbHWYY7/livesports.png", channels[1].LogoURL)
	assert.Equal(t, 1, strings.Count(string(data), "http://a/1\n"))
}

func TestRun_NoSources(t *testing.T) {
	setupEnv(t)
	fs := afero.NewMemMapFs()

	require.NoError(t, run(context.Background(), fs, quietLogger()))

	exists, err := afero.Exists(fs, "playlist.m3u")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRun_UnreachableSources(t *testing.T) {
	closedA := httptest.NewServer(http.NotFoundHandler())
	closedA.Close()
	closedB := httptest.NewServer(http.NotFoundHandler())
	closedB.Close()

	setupEnv(t, closedA.URL, closedB.URL)
	fs := afero.NewMemMapFs()

	require.NoError(t, run(context.Background(), fs, quietLogger()))

	exists, err := afero.Exists(fs, "playlist.m3u")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRun_InvalidConfiguration(t *testing.T) {
	setupEnv(t, "./a.m3u")
	t.Setenv("FETCH_TIMEOUT", "whenever")

	assert.Error(t, run(context.Background(), afero.NewMemMapFs(), quietLogger()))
}

func TestRun_WriteFailureIsFatal(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "a.m3u", []byte("#EXTINF:-1,A\nhttp://a/1\n"), 0644))
	setupEnv(t, "a.m3u")

	assert.Error(t, run(context.Background(), afero.NewReadOnlyFs(base), quietLogger()))
}

func TestRun_ScheduledStopsOnCancel(t *testing.T) {
	setupEnv(t, "a.m3u")
	t.Setenv("SYNC_CRON", "0 0 * * *")
	t.Setenv("SYNC_ON_BOOT", "true")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fs := afero.NewMemMapFs()
	require.NoError(t, run(ctx, fs, quietLogger()))

	exists, _ := afero.Exists(fs, "playlist.m3u")
	assert.False(t, exists)
}

func TestRun_InvalidSchedule(t *testing.T) {
	setupEnv(t, "a.m3u")
	t.Setenv("SYNC_CRON", "every now and then")

	assert.Error(t, run(context.Background(), afero.NewMemMapFs(), quietLogger()))
}
