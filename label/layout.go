// Package label formats the human-readable caption, the QR payload and the
// output file name of a variation. Caption and payload share one Layout so
// both stay in the same field order.
package label

import (
	"fmt"
	"strings"

	"github.com/jjscout/hellscore-merch-qr/catalog"
)

// Field names a variation attribute.
type Field string

const (
	FieldType   Field = "type"
	FieldDesign Field = "design"
	FieldGender Field = "gender"
	FieldSize   Field = "size"
)

// Value returns the attribute of v that f names.
func (f Field) Value(v catalog.Variation) string {
	switch f {
	case FieldType:
		return v.Type
	case FieldDesign:
		return v.Design
	case FieldGender:
		return v.Gender
	case FieldSize:
		return v.Size
	}
	return ""
}

// FieldSpec controls how one field is rendered. Width right-aligns the value
// in that many columns; OmitEmpty drops the segment when the value is blank.
type FieldSpec struct {
	Field     Field
	Width     int
	OmitEmpty bool
}

// Layout is the ordered field configuration of a caption.
type Layout struct {
	Fields    []FieldSpec
	Separator string
}

// DefaultLayout keeps every field, blank-padded, so captions line up
// column-wise on printed sheets.
var DefaultLayout = Layout{
	Fields: []FieldSpec{
		{Field: FieldType, Width: 6},
		{Field: FieldDesign, Width: 1},
		{Field: FieldGender, Width: 6},
		{Field: FieldSize, Width: 4},
	},
	Separator: ", ",
}

// Links are the fixed URLs embedded in every payload.
type Links struct {
	Promo     string
	Reference string
}

// DefaultLinks are the links printed on the deployed labels.
var DefaultLinks = Links{
	Promo:     "https://youtube.com/HellscoreACappella",
	Reference: "https://github.com/jjscout/hellscore-merch-qr",
}

// Text renders the caption for v.
func (l Layout) Text(v catalog.Variation) string {
	parts := make([]string, 0, len(l.Fields))
	for _, fs := range l.Fields {
		val := fs.Field.Value(v)
		if val == "" && fs.OmitEmpty {
			continue
		}
		parts = append(parts, fmt.Sprintf("%*s", fs.Width, val))
	}
	return strings.Join(parts, l.separator())
}

// Payload renders the QR content: promo link, caption, id, reference link.
func (l Layout) Payload(v catalog.Variation, id string, links Links) string {
	return strings.Join([]string{links.Promo, l.Text(v), id, links.Reference}, l.separator())
}

func (l Layout) separator() string {
	if l.Separator == "" {
		return ", "
	}
	return l.Separator
}

// FileName builds "<type>_<design>_<gender>_<size>_<id>[_grid].png". Blank
// fields stay as empty segments.
func FileName(v catalog.Variation, id string, grid bool) string {
	name := v.Key() + "_" + id
	if grid {
		name += "_grid"
	}
	return name + ".png"
}
