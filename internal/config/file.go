package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// fileOptions mirrors Options with the keys accepted in a config file.
// Pointer fields distinguish "absent" from "set to the zero value".
type fileOptions struct {
	InputDirectory  *string `yaml:"input_directory"`
	OutputDirectory *string `yaml:"output_directory"`
	OutputSuffix    *string `yaml:"output_suffix"`
	VideoQuality    *int    `yaml:"video_quality"`
	VideoCodec      *string `yaml:"video_codec"`
	FontSize        *int    `yaml:"font_size"`
	FontColor       *string `yaml:"font_color"`
	FontFile        *string `yaml:"font_file"`
	Bitrate         *string `yaml:"bitrate"`
	WatermarkText   *string `yaml:"watermark_text"`
	FFmpegPath      *string `yaml:"ffmpeg_path"`
}

// LoadFile applies settings from a YAML file onto opts. Only keys present in
// the file are applied, so defaults and flag values survive for the rest.
func LoadFile(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "error reading config file %s", path)
	}

	var f fileOptions
	if err := yaml.Unmarshal(data, &f); err != nil {
		return errors.Wrapf(err, "error parsing config file %s", path)
	}

	if f.InputDirectory != nil {
		opts.InputDir = *f.InputDirectory
	}
	if f.OutputDirectory != nil {
		opts.OutputDir = *f.OutputDirectory
	}
	if f.OutputSuffix != nil {
		opts.OutputSuffix = *f.OutputSuffix
	}
	if f.VideoQuality != nil {
		opts.VideoQuality = *f.VideoQuality
	}
	if f.VideoCodec != nil {
		opts.VideoCodec = *f.VideoCodec
	}
	if f.FontSize != nil {
		opts.FontSize = *f.FontSize
	}
	if f.FontColor != nil {
		opts.FontColor = *f.FontColor
	}
	if f.FontFile != nil {
		opts.FontFile = *f.FontFile
	}
	if f.Bitrate != nil {
		opts.Bitrate = *f.Bitrate
	}
	if f.WatermarkText != nil {
		opts.WatermarkText = *f.WatermarkText
	}
	if f.FFmpegPath != nil {
		opts.FFmpegPath = *f.FFmpegPath
	}

	return nil
}
