// Package render turns label captions and QR payloads into images: QR
// encoding, caption drawing, canvas composition and sheet tiling.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/skip2/go-qrcode"
)

// ErrEncode wraps failures from the QR encoder, typically a payload that does
// not fit the chosen version and recovery level.
var ErrEncode = errors.New("qr encode failed")

// Symbol is a rendered QR matrix. Modules is its side length in modules,
// quiet zone included.
type Symbol struct {
	Image   image.Image
	Modules int
}

// QROptions configures the QR matrix image.
type QROptions struct {
	Level      string // low, medium, high or highest
	BoxSize    int    // pixels per module
	Border     bool   // draw the 4-module quiet zone
	Version    int    // 0 picks the smallest version that fits
	Foreground color.Color
	Background color.Color
}

// DefaultQROptions mirrors the printed labels: low recovery, 10px modules.
func DefaultQROptions() QROptions {
	return QROptions{
		Level:      "low",
		BoxSize:    10,
		Border:     true,
		Foreground: color.Black,
		Background: color.White,
	}
}

// Encoder renders payload strings as QR matrix images.
type Encoder struct {
	opts  QROptions
	level qrcode.RecoveryLevel
}

// NewEncoder validates opts and returns an Encoder.
func NewEncoder(opts QROptions) (*Encoder, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.BoxSize <= 0 {
		return nil, fmt.Errorf("box size must be positive, got %d", opts.BoxSize)
	}
	if opts.Version < 0 || opts.Version > 40 {
		return nil, fmt.Errorf("qr version must be 0 (auto) or 1..40, got %d", opts.Version)
	}
	if opts.Foreground == nil {
		opts.Foreground = color.Black
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	return &Encoder{opts: opts, level: level}, nil
}

// Encode returns the QR symbol for payload, BoxSize pixels per module.
func (e *Encoder) Encode(payload string) (Symbol, error) {
	var (
		q   *qrcode.QRCode
		err error
	)
	if e.opts.Version == 0 {
		q, err = qrcode.New(payload, e.level)
	} else {
		q, err = qrcode.NewWithForcedVersion(payload, e.opts.Version, e.level)
	}
	if err != nil {
		return Symbol{}, fmt.Errorf("%w: %d bytes: %v", ErrEncode, len(payload), err)
	}
	q.DisableBorder = !e.opts.Border
	q.ForegroundColor = e.opts.Foreground
	q.BackgroundColor = e.opts.Background

	// A negative size is interpreted as pixels per module.
	return Symbol{Image: q.Image(-e.opts.BoxSize), Modules: len(q.Bitmap())}, nil
}

// ParseLevel maps a level name to a go-qrcode recovery level.
func ParseLevel(name string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(name) {
	case "", "low", "l":
		return qrcode.Low, nil
	case "medium", "m":
		return qrcode.Medium, nil
	case "high", "q":
		return qrcode.High, nil
	case "highest", "h":
		return qrcode.Highest, nil
	}
	return 0, fmt.Errorf("unknown qr recovery level %q", name)
}

// ParseColor parses "#rrggbb" or "rrggbb".
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return nil, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
