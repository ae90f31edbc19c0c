package ffmpeg

import (
	"strconv"

	"github.com/pinseclub/video-watermark/internal/config"
	"github.com/pinseclub/video-watermark/internal/watermark"
	"github.com/pinseclub/video-watermark/pkg/types"
)

// BuildEncodeArgs assembles the full encoder argv for one file, binary name
// first. Token order is fixed: hardware acceleration before the input, then
// the filter, the video codec, exactly one rate-control pair, audio
// passthrough, and the overwritten output path last.
func BuildEncodeArgs(opts *config.Options, inputPath, outputPath string) []string {
	overlay := watermark.TextOverlay{
		Text:      opts.WatermarkText,
		FontFile:  opts.FontFile,
		FontColor: opts.FontColor,
		FontSize:  opts.FontSize,
	}

	args := []string{opts.FFmpegPath}
	args = append(args, "-hwaccel_output_format", "qsv")
	args = append(args, "-i", inputPath)
	args = append(args, "-vf", overlay.Filter())
	args = append(args, "-c:v", opts.VideoCodec)

	switch opts.RateControl() {
	case types.RateControlBitrate:
		args = append(args, "-b:v", opts.Bitrate)
	default:
		args = append(args, "-global_quality", strconv.Itoa(opts.VideoQuality))
	}

	args = append(args, "-c:a", "copy")
	args = append(args, "-y", outputPath)

	return args
}
