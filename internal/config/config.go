package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/pinseclub/video-watermark/pkg/types"
)

// Sentinel errors for configuration failures. Callers match with errors.Is.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrFontNotFound     = errors.New("font file not found")
)

// Bounds for -global_quality, shared by hevc_qsv and h264_qsv.
const (
	MinQuality = 0
	MaxQuality = 51
)

// Options defines one watermarking run. Construct with DefaultOptions and
// check with Validate before use.
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

// DefaultOptions returns the stock configuration.
func DefaultOptions() *Options {
	return &Options{
		InputDir:      "Input",
		OutputDir:     "Output",
		OutputSuffix:  "pinseclub",
		VideoQuality:  18,
		VideoCodec:    string(types.CodecHevcQsv),
		FontSize:      30,
		FontColor:     "white",
		FontFile:      "./fonts/SimSun.ttf",
		Bitrate:       "",
		WatermarkText: "PINSE.CLUB",
		FFmpegPath:    "ffmpeg",
	}
}

// RateControl reports which rate-control mode the options select. A non-empty
// bitrate takes the place of quality-based control.
func (o *Options) RateControl() types.RateControlMode {
	if o.Bitrate != "" {
		return types.RateControlBitrate
	}
	return types.RateControlQuality
}

// Validate checks the options and returns the first failure. It performs no
// side effects; directory creation is a separate step.
func (o *Options) Validate() error {
	if err := ValidateQuality(o.VideoQuality); err != nil {
		return err
	}
	if err := ValidateCodec(o.VideoCodec); err != nil {
		return err
	}
	return ValidateFont(o.FontFile)
}

// ValidateQuality checks that q is a usable -global_quality value.
func ValidateQuality(q int) error {
	if q < MinQuality || q > MaxQuality {
		return errors.Wrapf(ErrInvalidParameter, "video quality %d out of range [%d, %d]",
			q, MinQuality, MaxQuality)
	}
	return nil
}

// ValidateCodec checks that c names a supported QSV encoder. Matching is
// exact; there is no case folding.
func ValidateCodec(c string) error {
	if !slices.Contains(types.SupportedCodecs(), c) {
		return errors.Wrapf(ErrInvalidParameter, "video codec %q not supported (expected one of: %s)",
			c, strings.Join(types.SupportedCodecs(), ", "))
	}
	return nil
}

// ValidateFont checks that the font file exists on disk.
func ValidateFont(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrFontNotFound, "%s", path)
		}
		return errors.WithStack(err)
	}
	if info.IsDir() {
		return errors.Wrapf(ErrFontNotFound, "%s is a directory", path)
	}
	return nil
}

// EnsureDir creates dir and any missing parents. It succeeds if the
// directory already exists.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "error creating directory %s", dir)
	}
	return nil
}
