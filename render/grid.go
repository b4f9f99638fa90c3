package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Grid tiles Rows x Cols cells of a fixed size into one sheet.
type Grid struct {
	Rows       int
	Cols       int
	CellWidth  int
	CellHeight int
}

// Size is the pixel size of the sheet.
func (g Grid) Size() image.Point {
	return image.Pt(g.Cols*g.CellWidth, g.Rows*g.CellHeight)
}

// Compose calls cell once per position, row by row, and pastes the result at
// (col*CellWidth, row*CellHeight). The first cell error aborts the sheet.
func (g Grid) Compose(cell func(row, col int) (image.Image, error)) (*image.NRGBA, error) {
	if g.Rows <= 0 || g.Cols <= 0 {
		return nil, fmt.Errorf("grid needs at least one row and column, got %dx%d", g.Rows, g.Cols)
	}
	if g.CellWidth <= 0 || g.CellHeight <= 0 {
		return nil, fmt.Errorf("invalid grid cell size %dx%d", g.CellWidth, g.CellHeight)
	}

	size := g.Size()
	sheet := imaging.New(size.X, size.Y, color.White)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			img, err := cell(row, col)
			if err != nil {
				return nil, fmt.Errorf("grid cell %d,%d: %w", row, col, err)
			}
			sheet = imaging.Paste(sheet, img, image.Pt(col*g.CellWidth, row*g.CellHeight))
		}
	}
	return sheet, nil
}
