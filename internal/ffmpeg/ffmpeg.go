package ffmpeg

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrEncodeFailed marks a nonzero or aborted encoder invocation. Callers
// match with errors.Is.
var ErrEncodeFailed = errors.New("encode failed")

// VideoMetadata contains metadata about a video file.
type VideoMetadata struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
}

// Processor wraps FFmpeg invocation and probing.
type Processor struct {
	verbose bool
}

// NewProcessor creates a new FFmpeg processor.
func NewProcessor(verbose bool) *Processor {
	return &Processor{
		verbose: verbose,
	}
}

// Encode runs one encoder invocation to completion. args carries the binary
// name first, as built by BuildEncodeArgs. The child inherits stdout and
// stderr so the encoder's own progress output reaches the terminal.
func (p *Processor) Encode(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.Wrap(ErrEncodeFailed, "empty argument list")
	}

	if p.verbose {
		log.Printf("running: %s\n", strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrapf(ErrEncodeFailed, "%s: %v", args[0], err)
	}

	return nil
}

// GetVideoMetadata retrieves metadata about a video file. A probe failure on
// a partially written file is a normal, recoverable outcome for callers that
// poll until a file is readable.
func (p *Processor) GetVideoMetadata(inputPath string) (*VideoMetadata, error) {
	probe, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "error probing %s", inputPath)
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	streams, ok := data["streams"].([]interface{})
	if !ok || len(streams) == 0 {
		return nil, errors.Errorf("no streams found in %s", inputPath)
	}

	var videoStream map[string]interface{}
	for _, stream := range streams {
		s, ok := stream.(map[string]interface{})
		if !ok {
			continue
		}
		if codecType, _ := s["codec_type"].(string); codecType == "video" {
			videoStream = s
			break
		}
	}

	if videoStream == nil {
		return nil, errors.Errorf("no video stream found in %s", inputPath)
	}

	meta := &VideoMetadata{}

	if width, ok := videoStream["width"].(float64); ok {
		meta.Width = int(width)
	}
	if height, ok := videoStream["height"].(float64); ok {
		meta.Height = int(height)
	}
	if codec, ok := videoStream["codec_name"].(string); ok {
		meta.Codec = codec
	}

	// Prefer the stream duration, fall back to the container duration.
	meta.Duration = parseDuration(videoStream["duration"])
	if meta.Duration == 0 {
		if format, ok := data["format"].(map[string]interface{}); ok {
			meta.Duration = parseDuration(format["duration"])
		}
	}

	return meta, nil
}

func parseDuration(v interface{}) float64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return d
}
