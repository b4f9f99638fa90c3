package output

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func TestNewSinkWipesExisting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "qrs")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "nested", "old.png")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewSink(dir)
	if err != nil {
		t.Fatalf("NewSink() error = %v", err)
	}
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("output dir has %d entries after reset, want 0", len(entries))
	}
}

func TestNewSinkCreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if _, err := NewSink(dir); err != nil {
		t.Fatalf("NewSink() error = %v", err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("Stat(%s) = %v, %v", dir, fi, err)
	}
}

func TestNewSinkFailure(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "blocker")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSink(filepath.Join(file, "qrs")); err == nil {
		t.Fatal("NewSink() under a regular file error = nil")
	}
	if _, err := NewSink(""); err == nil {
		t.Fatal("NewSink(\"\") error = nil")
	}
}

func TestWritePNG(t *testing.T) {
	s, err := NewSink(filepath.Join(t.TempDir(), "qrs"))
	if err != nil {
		t.Fatal(err)
	}
	img := imaging.New(12, 8, color.White)
	path, err := s.WritePNG("Necklace___S_abc.png", img)
	if err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if cfg.Width != 12 || cfg.Height != 8 {
		t.Fatalf("png = %dx%d, want 12x8", cfg.Width, cfg.Height)
	}
	if s.Written() != 1 {
		t.Fatalf("Written() = %d", s.Written())
	}

	if _, err := s.WritePNG("../escape.png", img); err == nil {
		t.Fatal("WritePNG() with path separator error = nil")
	}
}
