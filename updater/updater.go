package updater

import (
	"context"
	"fmt"
	"sync"

	"m3u-playlist-merger/config"
	"m3u-playlist-merger/logger"
	"m3u-playlist-merger/sourceproc"

	"github.com/robfig/cron/v3"
)

// Runner performs one complete merge run.
type Runner interface {
	Run(ctx context.Context) (sourceproc.Summary, error)
}

type Updater struct {
	sync.Mutex
	runner Runner
	logger logger.Logger
	boot   sync.WaitGroup
	Cron   *cron.Cron
}

// Initialize schedules runner on cfg.SyncCron and, when SyncOnBoot is set,
// starts one run immediately. Runs never overlap.
func Initialize(ctx context.Context, cfg *config.Config, runner Runner, log logger.Logger) (*Updater, error) {
	if cfg.SyncCron == "" {
		return nil, fmt.Errorf("no sync schedule configured")
	}

	updateInstance := &Updater{
		runner: runner,
		logger: log,
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.SyncCron, func() {
		updateInstance.UpdateSources(ctx)
	})
	if err != nil {
		log.Errorf("Error initializing background processes: %v", err)
		return nil, fmt.Errorf("invalid SYNC_CRON %q: %w", cfg.SyncCron, err)
	}
	updateInstance.Cron = c
	c.Start()

	log.Logf("Playlist refresh scheduled with SYNC_CRON %q", cfg.SyncCron)

	if cfg.SyncOnBoot {
		log.Log("SYNC_ON_BOOT enabled. Starting initial playlist update.")
		updateInstance.boot.Add(1)
		go func() {
			defer updateInstance.boot.Done()
			updateInstance.UpdateSources(ctx)
		}()
	}

	return updateInstance, nil
}

// UpdateSources runs one merge unless ctx is already done. A failed write is
// logged and the previous playlist stays in place until the next tick.
func (instance *Updater) UpdateSources(ctx context.Context) {
	// Ensure only one job is running at a time
	instance.Lock()
	defer instance.Unlock()

	select {
	case <-ctx.Done():
		return
	default:
	}

	instance.logger.Log("Background process: Updating playlist...")

	summary, err := instance.runner.Run(ctx)
	if err != nil {
		instance.logger.Errorf("Background process: Error updating playlist: %v", err)
		return
	}

	instance.logger.Debugf("Background process: %d sources, %d skipped, %d channels written",
		summary.Sources, summary.Skipped, summary.Channels)
}

// Stop halts the schedule and waits for a running update to finish.
func (instance *Updater) Stop() {
	if instance.Cron == nil {
		return
	}
	<-instance.Cron.Stop().Done()
	instance.boot.Wait()
}
