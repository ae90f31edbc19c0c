// Package check verifies that the local environment can execute a
// watermarking run before any file is touched.
package check

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/pinseclub/video-watermark/internal/config"
)

// Sentinel errors for failed environment checks.
var (
	ErrFFmpegNotFound = errors.New("ffmpeg not found")
	ErrEncoderMissing = errors.New("encoder not available")
)

// Run performs the environment checks in order: the encoder binary is
// reachable, it reports a version, the configured QSV encoder is compiled
// in, and the font file exists. The first failure is returned.
func Run(ctx context.Context, opts *config.Options) error {
	path, err := exec.LookPath(opts.FFmpegPath)
	if err != nil {
		return errors.Wrapf(ErrFFmpegNotFound, "%s", opts.FFmpegPath)
	}
	fmt.Printf("ffmpeg: %s\n", path)

	out, err := exec.CommandContext(ctx, opts.FFmpegPath, "-version").Output()
	if err != nil {
		return errors.Wrapf(err, "error running %s -version", opts.FFmpegPath)
	}
	fmt.Printf("version: %s\n", firstLine(string(out)))

	out, err = exec.CommandContext(ctx, opts.FFmpegPath, "-hide_banner", "-encoders").Output()
	if err != nil {
		return errors.Wrap(err, "error listing encoders")
	}
	if !EncoderListed(string(out), opts.VideoCodec) {
		return errors.Wrapf(ErrEncoderMissing, "%s (is this an ffmpeg build with Intel QSV?)", opts.VideoCodec)
	}
	fmt.Printf("encoder: %s available\n", opts.VideoCodec)

	if err := config.ValidateFont(opts.FontFile); err != nil {
		return err
	}
	fmt.Printf("font: %s\n", opts.FontFile)

	return nil
}

// EncoderListed reports whether an `ffmpeg -encoders` listing names enc.
// Listing lines look like:
//
//	V..... hevc_qsv             HEVC (Intel Quick Sync Video acceleration)
func EncoderListed(listing, enc string) bool {
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == enc {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
