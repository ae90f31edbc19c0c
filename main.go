package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pinseclub/video-watermark/pkg/videowatermark"
)

// Overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "video-watermark",
		Short: "Batch watermarking for video files using Intel QSV encoders",
		Long: `video-watermark stamps a moving text watermark onto every video found
under an input directory, encoding with ffmpeg's Intel Quick Sync (QSV)
hardware encoders and mirroring the directory layout under an output root.

The watermark jumps to a random position every 2000 frames and stays visible
for the first 1200 frames of each cycle.

Examples:
  # Watermark everything under ./Input into ./Output
  video-watermark -i ./Input -o ./Output

  # H.264 at a fixed 5 Mbps instead of quality-based rate control
  video-watermark -c h264_qsv -b 5M

  # See what would run without encoding anything
  video-watermark --dry-run

  # Keep watching the input directory for new files
  video-watermark watch -i ./Incoming -o ./Done`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := optionsFromFlags(cmd)
			if err != nil {
				return err
			}
			_, err = videowatermark.Run(cmd.Context(), opts)
			return err
		},
	}

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Verify ffmpeg, QSV encoder, and font availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := optionsFromFlags(cmd)
			if err != nil {
				return err
			}
			if err := videowatermark.Check(cmd.Context(), opts); err != nil {
				return err
			}
			fmt.Println("environment ok")
			return nil
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Watch the input directory and watermark new files as they arrive",
		Long: `Watch the input directory tree and watermark each new video file once its
size has been stable for the settle window. Runs until interrupted.

Example:
  video-watermark watch -i ./Incoming -o ./Done --settle 5s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := optionsFromFlags(cmd)
			if err != nil {
				return err
			}
			settle, _ := cmd.Flags().GetDuration("settle")

			err = videowatermark.Watch(cmd.Context(), opts, settle)
			if errors.Is(err, context.Canceled) {
				fmt.Println("stopped")
				return nil
			}
			return err
		},
	}
)

// optionsFromFlags resolves the effective options: defaults, then the
// config file if one was given, then any explicitly set flags.
func optionsFromFlags(cmd *cobra.Command) (*videowatermark.Options, error) {
	opts := videowatermark.DefaultOptions()
	flags := cmd.Flags()

	if path, _ := flags.GetString("config"); path != "" {
		if err := videowatermark.LoadFile(path, opts); err != nil {
			return nil, err
		}
	}

	if flags.Changed("input-directory") {
		opts.InputDir, _ = flags.GetString("input-directory")
	}
	if flags.Changed("output-directory") {
		opts.OutputDir, _ = flags.GetString("output-directory")
	}
	if flags.Changed("output-suffix") {
		opts.OutputSuffix, _ = flags.GetString("output-suffix")
	}
	if flags.Changed("video-quality") {
		opts.VideoQuality, _ = flags.GetInt("video-quality")
	}
	if flags.Changed("video-codec") {
		opts.VideoCodec, _ = flags.GetString("video-codec")
	}
	if flags.Changed("font-size") {
		opts.FontSize, _ = flags.GetInt("font-size")
	}
	if flags.Changed("font-color") {
		opts.FontColor, _ = flags.GetString("font-color")
	}
	if flags.Changed("font-file") {
		opts.FontFile, _ = flags.GetString("font-file")
	}
	if flags.Changed("bitrate") {
		opts.Bitrate, _ = flags.GetString("bitrate")
	}
	if flags.Changed("watermark-text") {
		opts.WatermarkText, _ = flags.GetString("watermark-text")
	}
	if flags.Changed("ffmpeg-path") {
		opts.FFmpegPath, _ = flags.GetString("ffmpeg-path")
	}

	opts.DryRun, _ = flags.GetBool("dry-run")
	opts.SkipExisting, _ = flags.GetBool("skip-existing")
	opts.FailFast, _ = flags.GetBool("fail-fast")
	opts.Verbose, _ = flags.GetBool("verbose")

	return opts, nil
}

func init() {
	defaults := videowatermark.DefaultOptions()

	pf := rootCmd.PersistentFlags()
	pf.StringP("input-directory", "i", defaults.InputDir, "Directory scanned recursively for video files")
	pf.StringP("output-directory", "o", defaults.OutputDir, "Directory the watermarked files are mirrored into")
	pf.StringP("output-suffix", "s", defaults.OutputSuffix, "Suffix appended to each output filename stem")
	pf.IntP("video-quality", "q", defaults.VideoQuality, "Encoder quality, 0-51 (lower is better)")
	pf.StringP("video-codec", "c", defaults.VideoCodec, "QSV encoder: hevc_qsv or h264_qsv")
	pf.Int("font-size", defaults.FontSize, "Watermark font size")
	pf.String("font-color", defaults.FontColor, "Watermark font color")
	pf.String("font-file", defaults.FontFile, "Path to the watermark font file")
	pf.StringP("bitrate", "b", defaults.Bitrate, "Fixed video bitrate (e.g. 5M); replaces quality-based rate control")
	pf.String("watermark-text", defaults.WatermarkText, "Text stamped onto each video")
	pf.String("ffmpeg-path", defaults.FFmpegPath, "ffmpeg binary to invoke")
	pf.String("config", "", "YAML config file; explicit flags take precedence")
	pf.Bool("dry-run", false, "Plan and print encoder commands without running them")
	pf.Bool("skip-existing", false, "Skip inputs whose output file already exists")
	pf.Bool("fail-fast", false, "Stop at the first failed encode")
	pf.BoolP("verbose", "v", false, "Enable verbose logging")

	watchCmd.Flags().Duration("settle", 2*time.Second, "How long a new file must stay unchanged before processing")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
