package sourceproc

import (
	"context"
	"fmt"
	"time"

	"m3u-playlist-merger/config"
	"m3u-playlist-merger/logger"
	"m3u-playlist-merger/m3u"
	"m3u-playlist-merger/utils"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// Summary describes one processing run.
type Summary struct {
	Sources  int
	Skipped  int
	Channels int
	Written  bool
	Checksum string
	// Err combines the failures of skipped sources. It is informational:
	// a skipped source never fails the run.
	Err error
}

type Processor struct {
	cfg    *config.Config
	fs     afero.Fs
	reader SourceReader
	merger *Merger
	writer *m3u.Writer
	logger logger.Logger
	now    func() time.Time
}

func NewProcessor(cfg *config.Config, fs afero.Fs, log logger.Logger) *Processor {
	return &Processor{
		cfg:    cfg,
		fs:     fs,
		reader: NewReader(cfg, fs, log),
		merger: NewMerger(cfg),
		writer: m3u.NewWriter(fs),
		logger: log,
		now:    time.Now,
	}
}

// Run reads all configured sources, merges them and writes the playlist.
// Only a failure to write the output is returned as an error; a run with no
// sources or no channels is a no-op that leaves any existing output alone.
func (p *Processor) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	if len(p.cfg.Sources) == 0 {
		p.logger.Log("No playlist sources configured, nothing to do")
		return summary, nil
	}

	merged, results := p.merger.MergeSources(ctx, p.reader, p.cfg.Sources)

	summary.Sources = len(results)
	for _, result := range results {
		if !result.OK() {
			summary.Skipped++
			summary.Err = multierr.Append(summary.Err, fmt.Errorf("%s: %w", result.Source, result.Err))
		}
	}
	if summary.Skipped > 0 {
		p.logger.Debugf("%d of %d sources skipped: %v", summary.Skipped, summary.Sources, summary.Err)
	}

	if len(merged) == 0 {
		p.logger.Log("No channels collected from any source, playlist not written")
		return summary, nil
	}

	count, err := p.writer.Write(p.cfg.OutputPath, p.cfg.Promo.Channel(), merged, p.now())
	if err != nil {
		return summary, fmt.Errorf("error writing %s: %w", p.cfg.OutputPath, err)
	}

	summary.Channels = count
	summary.Written = true

	if data, err := afero.ReadFile(p.fs, p.cfg.OutputPath); err == nil {
		summary.Checksum = utils.CalculateChecksum(data)
		p.logger.Debugf("Playlist checksum: %s", summary.Checksum)
	} else {
		p.logger.Warnf("Could not read back %s for checksum: %v", p.cfg.OutputPath, err)
	}

	p.logger.Logf("%s generated successfully (%d channels total)", p.cfg.OutputPath, count)

	return summary, nil
}
