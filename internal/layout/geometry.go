package layout

import (
	"fmt"
	"strings"
)

// Orientation represents page orientation
type Orientation string

const (
	// Portrait keeps the format's baseline dimensions
	Portrait Orientation = "portrait"
	// Landscape swaps the format's width and height
	Landscape Orientation = "landscape"
)

// Format names a supported page format
type Format string

const (
	FormatA4     Format = "a4"
	FormatLetter Format = "letter"
	FormatLegal  Format = "legal"
)

// PageSize is a page size in millimeters, portrait baseline
type PageSize struct {
	Width  float64
	Height float64
}

// Standard page sizes in millimeters
var pageSizes = map[Format]PageSize{
	FormatA4:     {Width: 210, Height: 297},
	FormatLetter: {Width: 216, Height: 279},
	FormatLegal:  {Width: 216, Height: 356},
}

// Formats returns the supported formats in display order
func Formats() []Format {
	return []Format{FormatA4, FormatLetter, FormatLegal}
}

// Size returns the portrait size of the format
func (f Format) Size() (PageSize, bool) {
	s, ok := pageSizes[f]
	return s, ok
}

// ParseFormat parses a format name case-insensitively
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := pageSizes[f]; !ok {
		return "", fmt.Errorf("unknown page format %q", s)
	}
	return f, nil
}

// ParseOrientation parses an orientation name case-insensitively
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case Portrait, Landscape:
		return o, nil
	case "":
		return Portrait, nil
	default:
		return "", fmt.Errorf("unknown orientation %q", s)
	}
}

// Geometry is the page and content area of every page in a run, in millimeters
type Geometry struct {
	PageWidth     float64
	PageHeight    float64
	Margin        float64
	ContentWidth  float64
	ContentHeight float64
}

// NewGeometry derives the page geometry for a format, orientation and margin.
// Unknown formats fall back to A4.
func NewGeometry(format Format, orientation Orientation, margin float64) Geometry {
	size, ok := format.Size()
	if !ok {
		size = pageSizes[FormatA4]
	}

	w, h := size.Width, size.Height
	if orientation == Landscape {
		w, h = h, w
	}

	return Geometry{
		PageWidth:     w,
		PageHeight:    h,
		Margin:        margin,
		ContentWidth:  w - 2*margin,
		ContentHeight: h - 2*margin,
	}
}

// Content returns the content rectangle
func (g Geometry) Content() Rect {
	return Rect{X: g.Margin, Y: g.Margin, Width: g.ContentWidth, Height: g.ContentHeight}
}

// Rect is an axis-aligned rectangle in millimeters, origin at the page's top-left corner
type Rect struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Inset shrinks the rectangle by d on every side
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// Right returns the x coordinate of the right edge
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge
func (r Rect) Bottom() float64 { return r.Y + r.Height }
