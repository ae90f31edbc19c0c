// Package videowatermark exposes the watermarking pipeline as a library:
// build Options, then call Run, Watch, or Check.
package videowatermark

import (
	"context"
	"time"

	"github.com/pinseclub/video-watermark/internal/check"
	"github.com/pinseclub/video-watermark/internal/config"
	"github.com/pinseclub/video-watermark/internal/ffmpeg"
	"github.com/pinseclub/video-watermark/internal/processor"
)

// Errors a caller may want to distinguish, matched with errors.Is.
var (
	ErrInvalidParameter = config.ErrInvalidParameter
	ErrFontNotFound     = config.ErrFontNotFound
	ErrNoInputFiles     = processor.ErrNoInputFiles
	ErrEncodeFailed     = ffmpeg.ErrEncodeFailed
)

// Options defines a watermarking run. It mirrors the CLI flags.
type Options struct {
	InputDir      string
	OutputDir     string
	OutputSuffix  string
	VideoQuality  int
	VideoCodec    string
	FontSize      int
	FontColor     string
	FontFile      string
	Bitrate       string
	WatermarkText string
	FFmpegPath    string
	DryRun        bool
	SkipExisting  bool
	FailFast      bool
	Verbose       bool
}

// Stats summarizes a finished run.
type Stats struct {
	Found      int
	Processed  int
	Skipped    int
	Failed     int
	InputBytes int64
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() *Options {
	return fromConfig(config.DefaultOptions())
}

// LoadFile applies settings from a YAML config file onto opts. Keys absent
// from the file leave the corresponding fields untouched.
func LoadFile(path string, opts *Options) error {
	c := opts.toConfig()
	if err := config.LoadFile(path, c); err != nil {
		return err
	}
	*opts = *fromConfig(c)
	return nil
}

// Run executes one batch over the input tree and reports what happened. The
// returned error is non-nil when the run should be treated as unsuccessful:
// invalid options, nothing to process, or failed encodes.
func Run(ctx context.Context, opts *Options) (Stats, error) {
	stats, err := processor.NewWatermarker(opts.toConfig()).Run(ctx)
	return Stats(stats), err
}

// Watch blocks watching the input tree, watermarking each new video file
// once its size has been stable for settle. It returns when ctx is
// canceled; settle <= 0 selects a sensible default.
func Watch(ctx context.Context, opts *Options, settle time.Duration) error {
	return processor.NewWatermarker(opts.toConfig()).Watch(ctx, processor.WatchOptions{Settle: settle})
}

// Check verifies the environment can execute a run: encoder binary, QSV
// encoder availability, and font file.
func Check(ctx context.Context, opts *Options) error {
	return check.Run(ctx, opts.toConfig())
}

func (o *Options) toConfig() *config.Options {
	return &config.Options{
		InputDir:      o.InputDir,
		OutputDir:     o.OutputDir,
		OutputSuffix:  o.OutputSuffix,
		VideoQuality:  o.VideoQuality,
		VideoCodec:    o.VideoCodec,
		FontSize:      o.FontSize,
		FontColor:     o.FontColor,
		FontFile:      o.FontFile,
		Bitrate:       o.Bitrate,
		WatermarkText: o.WatermarkText,
		FFmpegPath:    o.FFmpegPath,
		DryRun:        o.DryRun,
		SkipExisting:  o.SkipExisting,
		FailFast:      o.FailFast,
		Verbose:       o.Verbose,
	}
}

func fromConfig(c *config.Options) *Options {
	return &Options{
		InputDir:      c.InputDir,
		OutputDir:     c.OutputDir,
		OutputSuffix:  c.OutputSuffix,
		VideoQuality:  c.VideoQuality,
		VideoCodec:    c.VideoCodec,
		FontSize:      c.FontSize,
		FontColor:     c.FontColor,
		FontFile:      c.FontFile,
		Bitrate:       c.Bitrate,
		WatermarkText: c.WatermarkText,
		FFmpegPath:    c.FFmpegPath,
		DryRun:        c.DryRun,
		SkipExisting:  c.SkipExisting,
		FailFast:      c.FailFast,
		Verbose:       c.Verbose,
	}
}
