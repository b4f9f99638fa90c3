// Package output persists generated label images.
package output

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Sink is a freshly reset output directory. A Sink only exists once the
// directory has been wiped and recreated, so every write lands in a clean
// directory.
type Sink struct {
	dir     string
	written int
}

// NewSink removes dir recursively if it exists and recreates it empty.
func NewSink(dir string) (*Sink, error) {
	if dir == "" || filepath.Clean(dir) == "/" {
		return nil, fmt.Errorf("refusing to reset output dir %q", dir)
	}
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("removing output dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir %s: %w", dir, err)
	}
	return &Sink{dir: dir}, nil
}

// Dir returns the directory path.
func (s *Sink) Dir() string {
	return s.dir
}

// Written is the number of images written so far.
func (s *Sink) Written() int {
	return s.written
}

// WritePNG encodes img as PNG under name and returns the full path.
func (s *Sink) WritePNG(name string, img image.Image) (string, error) {
	if filepath.Base(name) != name {
		return "", fmt.Errorf("invalid output file name %q", name)
	}
	path := filepath.Join(s.dir, name)
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	s.written++
	return path, nil
}
