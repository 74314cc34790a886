package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"m3u-playlist-merger/config"
	"m3u-playlist-merger/logger"
	"m3u-playlist-merger/sourceproc"
	"m3u-playlist-merger/updater"

	"github.com/spf13/afero"
)

func run(ctx context.Context, fs afero.Fs, log logger.Logger) error {
	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	if len(cfg.Sources) == 0 {
		log.Log("No playlist sources configured (PLAYLIST_URL_1..3), nothing to do")
		return nil
	}

	processor := sourceproc.NewProcessor(cfg, fs, log)

	if cfg.SyncCron == "" {
		_, err := processor.Run(ctx)
		return err
	}

	up, err := updater.Initialize(ctx, cfg, processor, log)
	if err != nil {
		return err
	}

	<-ctx.Done()
	log.Log("Shutting down, waiting for running update to finish...")
	up.Stop()

	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// manually set time zone
	if tz := os.Getenv("TZ"); tz != "" {
		var err error
		time.Local, err = time.LoadLocation(tz)
		if err != nil {
			logger.Default.Errorf("error loading location '%s': %v", tz, err)
		}
	}

	if err := run(ctx, afero.NewOsFs(), logger.Default); err != nil {
		logger.Default.Fatalf("%v", err)
	}
}
