package processor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pinseclub/video-watermark/internal/config"
	"github.com/pinseclub/video-watermark/internal/ffmpeg"
)

// Watermarker drives watermarking runs over a directory tree.
type Watermarker struct {
	opts   *config.Options
	ffmpeg *ffmpeg.Processor
}

// NewWatermarker creates a watermarker for the given options.
func NewWatermarker(opts *config.Options) *Watermarker {
	return &Watermarker{
		opts:   opts,
		ffmpeg: ffmpeg.NewProcessor(opts.Verbose),
	}
}

// RunStats summarizes one batch run.
type RunStats struct {
	Found      int
	Processed  int
	Skipped    int
	Failed     int
	InputBytes int64
}

// OutputPath maps an input's path relative to the input root onto its
// mirrored output location: the relative directory is preserved under
// outputDir and the suffix is appended to the file stem.
func OutputPath(outputDir, rel, suffix string) string {
	ext := filepath.Ext(rel)
	stem := strings.TrimSuffix(filepath.Base(rel), ext)
	name := fmt.Sprintf("%s_%s%s", stem, suffix, ext)
	return filepath.Join(outputDir, filepath.Dir(rel), name)
}
