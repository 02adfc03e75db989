package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"mapbuilder/internal/common/fsutil"
	"mapbuilder/pkg/types"
)

// spriteExts are the encodings the image loader can decode.
var spriteExts = []string{".png", ".jpg", ".jpeg", ".gif"}

// LoadDir scans a directory for sprite images and builds image specs from
// filenames. ID is the filename without extension; Path is the absolute file
// path. Subdirectories are not scanned.
func LoadDir(dir string) ([]types.ImageSpec, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var images []types.ImageSpec
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !fsutil.HasExt(e.Name(), spriteExts...) {
			continue
		}
		id := fsutil.TrimExt(e.Name())
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("sprite %q defined by both %s and %s", id, prev, e.Name())
		}
		seen[id] = e.Name()
		images = append(images, types.ImageSpec{ID: id, Path: filepath.Join(abs, e.Name())})
	}
	return images, nil
}

// Merge appends sprites whose id is not already declared in images.
// Declared images keep their position and win on conflict.
func Merge(images, sprites []types.ImageSpec) []types.ImageSpec {
	out := append([]types.ImageSpec(nil), images...)
	have := make(map[string]bool, len(images))
	for _, img := range images {
		have[img.ID] = true
	}
	for _, s := range sprites {
		if !have[s.ID] {
			out = append(out, s)
			have[s.ID] = true
		}
	}
	return out
}
