package processor

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/pinseclub/video-watermark/internal/config"
	"github.com/pinseclub/video-watermark/internal/discover"
	"github.com/pinseclub/video-watermark/internal/ffmpeg"
)

// ErrNoInputFiles reports that discovery found nothing to process.
var ErrNoInputFiles = errors.New("no video files found")

// Run executes one batch: validate the options, ensure the output root,
// discover inputs, then watermark each file in discovery order. A failed
// encode is counted and the batch moves on unless FailFast is set; the
// returned error is non-nil whenever the run should be treated as
// unsuccessful.
func (w *Watermarker) Run(ctx context.Context) (RunStats, error) {
	var stats RunStats

	if err := w.opts.Validate(); err != nil {
		return stats, err
	}
	if err := config.EnsureDir(w.opts.OutputDir); err != nil {
		return stats, err
	}

	files, err := discover.Videos(w.opts.InputDir, w.opts.OutputDir)
	if err != nil {
		return stats, err
	}
	if len(files) == 0 {
		return stats, errors.Wrapf(ErrNoInputFiles, "%s", w.opts.InputDir)
	}

	stats.Found = len(files)
	fmt.Printf("found %d video file(s) in %s\n", stats.Found, w.opts.InputDir)

	for i, f := range files {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		outputPath := OutputPath(w.opts.OutputDir, f.Rel, w.opts.OutputSuffix)

		if w.opts.SkipExisting && fileExists(outputPath) {
			stats.Skipped++
			fmt.Printf("[%d/%d] skipping %s: output already exists\n", i+1, stats.Found, f.Path)
			continue
		}

		if err := config.EnsureDir(filepath.Dir(outputPath)); err != nil {
			stats.Failed++
			log.Printf("error processing %s: %v\n", f.Path, err)
			if w.opts.FailFast {
				return stats, err
			}
			continue
		}

		args := ffmpeg.BuildEncodeArgs(w.opts, f.Path, outputPath)

		fmt.Printf("[%d/%d] processing %s -> %s\n", i+1, stats.Found, f.Path, outputPath)
		w.logInputStats(f)

		if w.opts.DryRun {
			fmt.Printf("dry run: %s\n", strings.Join(args, " "))
			stats.Processed++
			stats.InputBytes += f.Size
			continue
		}

		if err := w.ffmpeg.Encode(ctx, args); err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Failed++
			log.Printf("error processing %s: %v\n", f.Path, err)
			if w.opts.FailFast {
				return stats, err
			}
			continue
		}

		stats.Processed++
		stats.InputBytes += f.Size
	}

	fmt.Printf("all done: %d processed, %d skipped, %d failed\n",
		stats.Processed, stats.Skipped, stats.Failed)
	if w.opts.Verbose {
		log.Printf("total input read: %.2f MB\n", float64(stats.InputBytes)/1024/1024)
	}

	if stats.Failed > 0 {
		return stats, errors.Wrapf(ffmpeg.ErrEncodeFailed, "%d of %d file(s)", stats.Failed, stats.Found)
	}

	return stats, nil
}

func (w *Watermarker) logInputStats(f discover.VideoFile) {
	if !w.opts.Verbose {
		return
	}
	meta, err := w.ffmpeg.GetVideoMetadata(f.Path)
	if err != nil {
		log.Printf("could not probe %s: %v\n", f.Path, err)
		return
	}
	log.Printf("input: duration=%.2fs resolution=%dx%d codec=%s size=%.2f MB\n",
		meta.Duration, meta.Width, meta.Height, meta.Codec, float64(f.Size)/1024/1024)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
