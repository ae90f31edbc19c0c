// Package discover walks an input tree and collects the video files a run
// will process.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// VideoPatterns are the filename globs treated as video inputs. Matching is
// case sensitive, so b.MP4 is not picked up.
var VideoPatterns = []string{
	"*.mp4", "*.avi", "*.mkv", "*.mov", "*.wmv", "*.flv",
	"*.ts", "*.vob", "*.webm", "*.3gp", "*.m4v", "*.rmvb",
}

// VideoFile is one discovered input.
type VideoFile struct {
	Path string // as joined with the scan root
	Rel  string // relative to the scan root
	Size int64
}

// MatchesVideo reports whether a base filename matches one of the video
// patterns.
func MatchesVideo(name string) bool {
	return slices.ContainsFunc(VideoPatterns, func(pattern string) bool {
		ok, err := filepath.Match(pattern, name)
		return err == nil && ok
	})
}

// Videos walks root recursively and returns every matching file in traversal
// order. Directories listed in exclude are skipped entirely, so a run never
// re-discovers its own outputs. A missing root yields an empty result, the
// same as a root with no videos in it; a root that is not a directory is an
// error.
func Videos(root string, exclude ...string) ([]VideoFile, error) {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", root)
	}

	var files []VideoFile

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			for _, ex := range exclude {
				if ex != "" && samePath(path, ex) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !MatchesVideo(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		files = append(files, VideoFile{Path: path, Rel: rel, Size: info.Size()})
		return nil
	})
	if walkErr != nil {
		return nil, errors.Wrapf(walkErr, "error scanning %s", root)
	}

	return files, nil
}

func samePath(a, b string) bool {
	absA, err := filepath.Abs(a)
	if err != nil {
		return a == b
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return a == b
	}
	return absA == absB
}
