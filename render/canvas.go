package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// minFontSize bounds how far a caption is shrunk to fit the canvas width.
const minFontSize = 8

// ErrNoRoom is returned when the space left under the caption cannot hold
// the QR symbol at one pixel per module or more.
var ErrNoRoom = errors.New("canvas too small for qr symbol")

// Placement records where the caption and the QR matrix ended up.
type Placement struct {
	Text     image.Rectangle
	QR       image.Rectangle
	FontSize float64
}

// Composer draws a caption and a QR image onto a fixed-size canvas.
type Composer struct {
	Width      int
	Height     int
	TopMargin  int
	SideMargin int // minimum space left and right of the caption
	Gap        int
	FontSize   float64
	Font       *Font
	TextColor  color.Color
	Background color.Color

	mu sync.Mutex
}

// NewComposer returns a Composer with the label defaults: 600x680 white
// canvas, black caption, 10px margins and gap.
func NewComposer(f *Font, fontSize float64) *Composer {
	return &Composer{
		Width:      600,
		Height:     680,
		TopMargin:  10,
		SideMargin: 10,
		Gap:        10,
		FontSize:   fontSize,
		Font:       f,
		TextColor:  color.Black,
		Background: color.White,
	}
}

// Compose centres text at the top of a new canvas and places qr centred
// below it. The canvas is always Width x Height: a caption wider than the
// canvas is drawn at a smaller size, a QR image taller or wider than the
// remaining area is scaled down. Scaling below one pixel per module fails
// with ErrNoRoom. A zero Symbol draws the caption only.
func (c *Composer) Compose(text string, qr Symbol) (*image.NRGBA, Placement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	canvas := imaging.New(c.Width, c.Height, c.Background)

	face, size := c.fitFace(text)
	bounds, _ := font.BoundString(face, text)
	tw := (bounds.Max.X - bounds.Min.X).Ceil()
	th := (bounds.Max.Y - bounds.Min.Y).Ceil()
	tx := (c.Width - tw) / 2
	ty := c.TopMargin

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(c.TextColor),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(tx) - bounds.Min.X, Y: fixed.I(ty) - bounds.Min.Y},
	}
	d.DrawString(text)

	place := Placement{
		Text:     image.Rect(tx, ty, tx+tw, ty+th),
		FontSize: size,
	}
	if qr.Image == nil {
		return canvas, place, nil
	}

	qy := ty + th + c.Gap
	availW, availH := c.Width, c.Height-qy
	img := qr.Image
	if b := img.Bounds(); b.Dx() > availW || b.Dy() > availH {
		minSide := max(qr.Modules, 1)
		if min(availW, availH) < minSide {
			return nil, place, fmt.Errorf("%w: %dx%d px left, symbol needs %d", ErrNoRoom, availW, max(availH, 0), minSide)
		}
		// Nearest neighbour keeps module edges hard.
		img = imaging.Fit(img, availW, availH, imaging.NearestNeighbor)
	}
	qb := img.Bounds()
	qx := (c.Width - qb.Dx()) / 2
	canvas = imaging.Paste(canvas, img, image.Pt(qx, qy))
	place.QR = image.Rect(qx, qy, qx+qb.Dx(), qy+qb.Dy())
	return canvas, place, nil
}

// fitFace picks the configured size, or the largest smaller one at which
// text fits between the side margins.
func (c *Composer) fitFace(text string) (font.Face, float64) {
	size := c.FontSize
	face := c.Font.Face(size)
	if !c.Font.Scalable() {
		return face, size
	}
	avail := c.Width - 2*c.SideMargin
	w := textWidth(face, text)
	for w > avail && size > minFontSize {
		next := math.Floor(size * float64(avail) / float64(w))
		if next >= size {
			next = size - 1
		}
		size = math.Max(minFontSize, next)
		face = c.Font.Face(size)
		w = textWidth(face, text)
	}
	return face, size
}

func textWidth(face font.Face, text string) int {
	bounds, _ := font.BoundString(face, text)
	return (bounds.Max.X - bounds.Min.X).Ceil()
}
