package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinseclub/video-watermark/pkg/types"
)

func writeFont(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "font.ttf")
	require.NoError(t, os.WriteFile(path, []byte("font"), 0644))
	return path
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, "Input", opts.InputDir)
	assert.Equal(t, "Output", opts.OutputDir)
	assert.Equal(t, "pinseclub", opts.OutputSuffix)
	assert.Equal(t, 18, opts.VideoQuality)
	assert.Equal(t, "hevc_qsv", opts.VideoCodec)
	assert.Equal(t, 30, opts.FontSize)
	assert.Equal(t, "white", opts.FontColor)
	assert.Equal(t, "./fonts/SimSun.ttf", opts.FontFile)
	assert.Empty(t, opts.Bitrate)
	assert.Equal(t, "PINSE.CLUB", opts.WatermarkText)
	assert.Equal(t, "ffmpeg", opts.FFmpegPath)
}

func TestValidateQuality(t *testing.T) {
	tests := []struct {
		name    string
		quality int
		wantErr bool
	}{
		{"lowest", 0, false},
		{"default", 18, false},
		{"highest", 51, false},
		{"below range", -1, true},
		{"above range", 52, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuality(tt.quality)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParameter)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCodec(t *testing.T) {
	tests := []struct {
		name    string
		codec   string
		wantErr bool
	}{
		{"hevc", "hevc_qsv", false},
		{"h264", "h264_qsv", false},
		{"empty", "", true},
		{"software hevc", "hevc", true},
		{"software h264", "h264", true},
		{"uppercase", "HEVC_QSV", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCodec(tt.codec)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParameter)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFont(t *testing.T) {
	assert.NoError(t, ValidateFont(writeFont(t)))

	missing := filepath.Join(t.TempDir(), "missing.ttf")
	assert.ErrorIs(t, ValidateFont(missing), ErrFontNotFound)

	assert.ErrorIs(t, ValidateFont(t.TempDir()), ErrFontNotFound)
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Creating an existing directory is not an error.
	assert.NoError(t, EnsureDir(dir))
}

func TestValidateReturnsFirstFailure(t *testing.T) {
	opts := DefaultOptions()
	opts.FontFile = writeFont(t)
	assert.NoError(t, opts.Validate())

	opts.VideoQuality = 99
	opts.VideoCodec = "bogus"
	err := opts.Validate()
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "quality")

	opts.VideoQuality = 18
	err = opts.Validate()
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "codec")

	opts.VideoCodec = "h264_qsv"
	opts.FontFile = filepath.Join(t.TempDir(), "gone.ttf")
	assert.ErrorIs(t, opts.Validate(), ErrFontNotFound)
}

func TestRateControl(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, types.RateControlQuality, opts.RateControl())

	opts.Bitrate = "5M"
	assert.Equal(t, types.RateControlBitrate, opts.RateControl())
}
