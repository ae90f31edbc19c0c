package processor

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/pinseclub/video-watermark/internal/config"
	"github.com/pinseclub/video-watermark/internal/discover"
	"github.com/pinseclub/video-watermark/internal/ffmpeg"
)

// WatchOptions configure continuous mode.
type WatchOptions struct {
	// Settle is how long a new file's size must stay unchanged before it is
	// processed.
	Settle time.Duration
}

const defaultSettle = 2 * time.Second

// A size-stable file that still fails probing gets this many more settle
// windows before it is dropped.
const maxProbeAttempts = 3

// pendingFile tracks a file that appeared under the input root and has not
// settled yet.
type pendingFile struct {
	size      int64
	changedAt time.Time
	attempts  int
}

// Watch validates the options, then watches the input tree and watermarks
// each new video file once it settles. It blocks until ctx is canceled.
// Files whose output already exists are skipped, so repeated events for the
// same path are harmless.
func (w *Watermarker) Watch(ctx context.Context, wopts WatchOptions) error {
	if err := w.opts.Validate(); err != nil {
		return err
	}
	if err := config.EnsureDir(w.opts.OutputDir); err != nil {
		return err
	}

	if wopts.Settle <= 0 {
		wopts.Settle = defaultSettle
	}
	tick := wopts.Settle / 2
	if tick < 50*time.Millisecond {
		tick = 50 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "error creating filesystem watcher")
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, w.opts.InputDir, w.opts.OutputDir); err != nil {
		return err
	}

	fmt.Printf("watching %s for new video files\n", w.opts.InputDir)

	pending := make(map[string]*pendingFile)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(watcher, event, pending)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v\n", err)
		case now := <-ticker.C:
			w.flushSettled(ctx, pending, now, wopts.Settle)
		}
	}
}

func (w *Watermarker) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event, pending map[string]*pendingFile) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	if info.IsDir() {
		// New directories join the watch so files created inside them are
		// seen too.
		if event.Op.Has(fsnotify.Create) {
			if err := addWatchRecursive(watcher, event.Name, w.opts.OutputDir); err != nil {
				log.Printf("could not watch %s: %v\n", event.Name, err)
			}
		}
		return
	}

	if !discover.MatchesVideo(filepath.Base(event.Name)) {
		return
	}
	if underDir(w.opts.OutputDir, event.Name) {
		return
	}

	p, ok := pending[event.Name]
	if !ok {
		pending[event.Name] = &pendingFile{size: info.Size(), changedAt: time.Now()}
		return
	}
	if p.size != info.Size() {
		p.size = info.Size()
		p.changedAt = time.Now()
	}
}

// flushSettled dispatches every pending file whose size has stayed unchanged
// for a full settle window and that probes as readable media.
func (w *Watermarker) flushSettled(ctx context.Context, pending map[string]*pendingFile, now time.Time, settle time.Duration) {
	for path, p := range pending {
		info, err := os.Stat(path)
		if err != nil {
			delete(pending, path)
			continue
		}
		if info.Size() != p.size {
			p.size = info.Size()
			p.changedAt = now
			continue
		}
		if now.Sub(p.changedAt) < settle {
			continue
		}

		// A copy in progress can be size-stable between write bursts, so a
		// settled file must also probe cleanly before it is dispatched.
		if !w.opts.DryRun {
			if _, err := w.ffmpeg.GetVideoMetadata(path); err != nil {
				p.attempts++
				p.changedAt = now
				if p.attempts >= maxProbeAttempts {
					log.Printf("giving up on %s: %v\n", path, err)
					delete(pending, path)
				}
				continue
			}
		}

		delete(pending, path)
		if err := w.dispatchNew(ctx, path); err != nil {
			log.Printf("error processing %s: %v\n", path, err)
		}
	}
}

// dispatchNew watermarks one settled file with the same per-file sequence as
// the batch loop.
func (w *Watermarker) dispatchNew(ctx context.Context, path string) error {
	rel, err := filepath.Rel(w.opts.InputDir, path)
	if err != nil {
		return errors.Wrapf(err, "%s is outside the input root", path)
	}

	outputPath := OutputPath(w.opts.OutputDir, rel, w.opts.OutputSuffix)
	if fileExists(outputPath) {
		return nil
	}

	if err := config.EnsureDir(filepath.Dir(outputPath)); err != nil {
		return err
	}

	args := ffmpeg.BuildEncodeArgs(w.opts, path, outputPath)

	fmt.Printf("processing %s -> %s\n", path, outputPath)

	if w.opts.DryRun {
		fmt.Printf("dry run: %s\n", strings.Join(args, " "))
		return nil
	}

	return w.ffmpeg.Encode(ctx, args)
}

// addWatchRecursive registers dir and every subdirectory, except the output
// root, with the watcher.
func addWatchRecursive(watcher *fsnotify.Watcher, dir, exclude string) error {
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if exclude != "" && underDir(exclude, path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	return errors.Wrapf(walkErr, "error watching %s", dir)
}

// underDir reports whether path names dir itself or something inside it.
// Both sides are resolved to absolute form first, so a relative event path
// still matches an absolute output root.
func underDir(dir, path string) bool {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return strings.SplitN(rel, string(filepath.Separator), 2)[0] != ".."
}
