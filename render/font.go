package render

import (
	"log/slog"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontSource tells where the caption font came from.
type FontSource string

const (
	FontFromFile FontSource = "file"
	FontBuiltin  FontSource = "builtin" // embedded Go Regular
	FontBitmap   FontSource = "bitmap"  // basicfont 7x13, cannot be scaled
)

// Font is a scalable caption font. Faces are cached per size and are not
// safe for concurrent drawing; callers serialise use.
type Font struct {
	Source FontSource

	otf   *opentype.Font
	mu    sync.Mutex
	faces map[float64]font.Face
}

// LoadFont reads a TrueType/OpenType file. When path is empty, unreadable or
// not a font it falls back to the embedded Go Regular font and logs a
// warning; it never fails.
func LoadFont(path string, log *slog.Logger) *Font {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			var f *opentype.Font
			if f, err = opentype.Parse(data); err == nil {
				return newFont(f, FontFromFile)
			}
		}
		log.Warn("font unavailable, using built-in font", "path", path, "error", err)
	}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Warn("built-in font unavailable, using bitmap font", "error", err)
		return newFont(nil, FontBitmap)
	}
	return newFont(f, FontBuiltin)
}

func newFont(f *opentype.Font, src FontSource) *Font {
	if f == nil {
		src = FontBitmap
	}
	return &Font{Source: src, otf: f, faces: make(map[float64]font.Face)}
}

// Scalable reports whether Face honours the requested size.
func (f *Font) Scalable() bool {
	return f.otf != nil
}

// Face returns the face for size points at 72 DPI, so one point is one pixel.
func (f *Font) Face(size float64) font.Face {
	if f.otf == nil {
		return basicfont.Face7x13
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face
	}
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	f.faces[size] = face
	return face
}
