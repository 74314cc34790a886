package updater

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"m3u-playlist-merger/config"
	"m3u-playlist-merger/sourceproc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLogger is a simple logger to capture log messages for testing.
type TestLogger struct {
	mu   sync.Mutex
	logs []string
}

func (tl *TestLogger) add(s string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.logs = append(tl.logs, s)
}

func (tl *TestLogger) Log(s string) { tl.add(s) }
func (tl *TestLogger) Logf(format string, a ...any) { tl.add(fmt.Sprintf(format, a...)) }
func (tl *TestLogger) Warn(s string) { tl.add(s) }
func (tl *TestLogger) Warnf(format string, a ...any) { tl.add(fmt.Sprintf(format, a...)) }
func (tl *TestLogger) Debug(s string) { tl.add(s) }
func (tl *TestLogger) Debugf(format string, a ...any) { tl.add(fmt.Sprintf(format, a...)) }
func (tl *TestLogger) Error(s string) { tl.add(s) }
func (tl *TestLogger) Errorf(format string, a ...any) { tl.add(fmt.Sprintf(format, a...)) }
func (tl *TestLogger) Fatal(s string) { tl.add(s) }
func (tl *TestLogger) Fatalf(format string, a ...any) { tl.add(fmt.Sprintf(format, a...)) }

func (tl *TestLogger) Contains(substr string) bool {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	for _, msg := range tl.logs {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

type countingRunner struct {
	calls   atomic.Int32
	running atomic.Int32
	overlap atomic.Bool
	delay   time.Duration
	err     error
}

func (r *countingRunner) Run(ctx context.Context) (sourceproc.Summary, error) {
	if r.running.Add(1) > 1 {
		r.overlap.Store(true)
	}
	defer r.running.Add(-1)

	r.calls.Add(1)
	time.Sleep(r.delay)
	return sourceproc.Summary{Sources: 1, Channels: 2, Written: r.err == nil}, r.err
}

func scheduledConfig(schedule string, onBoot bool) *config.Config {
	cfg := config.Default()
	cfg.SyncCron = schedule
	cfg.SyncOnBoot = onBoot
	return cfg
}

func TestInitialize_SyncOnBoot(t *testing.T) {
	log := &TestLogger{}
	runner := &countingRunner{}

	up, err := Initialize(context.Background(), scheduledConfig("0 0 * * *", true), runner, log)
	require.NoError(t, err)
	up.Stop()

	assert.Equal(t, int32(1), runner.calls.Load())
	assert.True(t, log.Contains("SYNC_ON_BOOT enabled"))
	assert.True(t, log.Contains("Playlist refresh scheduled"))
}

func TestInitialize_NoSyncOnBoot(t *testing.T) {
	runner := &countingRunner{}

	up, err := Initialize(context.Background(), scheduledConfig("0 0 * * *", false), runner, &TestLogger{})
	require.NoError(t, err)
	up.Stop()

	assert.Equal(t, int32(0), runner.calls.Load())
}

// TestInitialize_InvalidCron verifies that an invalid cron schedule causes Initialize
// to return an error.
func TestInitialize_InvalidCron(t *testing.T) {
	log := &TestLogger{}

	_, err := Initialize(context.Background(), scheduledConfig("invalid-cron", false), &countingRunner{}, log)
	assert.Error(t, err)
	assert.True(t, log.Contains("Error initializing background processes"))
}

func TestInitialize_EmptySchedule(t *testing.T) {
	_, err := Initialize(context.Background(), scheduledConfig("", true), &countingRunner{}, &TestLogger{})
	assert.Error(t, err)
}

// TestUpdateSources_ContextCancelled verifies that if the context is cancelled before
// UpdateSources runs its work, then no processing occurs.
func TestUpdateSources_ContextCancelled(t *testing.T) {
	log := &TestLogger{}
	runner := &countingRunner{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	up := &Updater{runner: runner, logger: log}
	up.UpdateSources(ctx)

	assert.Equal(t, int32(0), runner.calls.Load())
	assert.False(t, log.Contains("Background process: Updating playlist"))
}

func TestUpdateSources_RunError(t *testing.T) {
	log := &TestLogger{}
	runner := &countingRunner{err: errors.New("read-only filesystem")}

	up := &Updater{runner: runner, logger: log}
	up.UpdateSources(context.Background())

	assert.Equal(t, int32(1), runner.calls.Load())
	assert.True(t, log.Contains("Error updating playlist: read-only filesystem"))
}

func TestUpdateSources_NoOverlap(t *testing.T) {
	runner := &countingRunner{delay: 20 * time.Millisecond}
	up := &Updater{runner: runner, logger: &TestLogger{}}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			up.UpdateSources(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(4), runner.calls.Load())
	assert.False(t, runner.overlap.Load(), "updates must run one at a time")
}
