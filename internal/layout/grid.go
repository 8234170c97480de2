package layout

import (
	"fmt"
	"math"
)

// CellInset separates adjacent images when several share a page
const CellInset = 2.0

// supportedPerPage lists the images-per-page counts offered to callers
var supportedPerPage = []int{1, 2, 4, 6, 9}

// SupportedPerPage returns the supported images-per-page counts in ascending order
func SupportedPerPage() []int {
	out := make([]int, len(supportedPerPage))
	copy(out, supportedPerPage)
	return out
}

// IsSupportedPerPage reports whether n is one of the supported counts
func IsSupportedPerPage(n int) bool {
	for _, s := range supportedPerPage {
		if s == n {
			return true
		}
	}
	return false
}

// NormalizePerPage maps n to the nearest supported count.
// Ties resolve to the smaller count.
func NormalizePerPage(n int) int {
	best := supportedPerPage[0]
	bestDist := math.MaxInt
	for _, s := range supportedPerPage {
		d := s - n
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

// Grid is the column and row count of a multi-image page
type Grid struct {
	Cols int
	Rows int
}

// NewGrid returns the grid for n images per page: cols = ceil(sqrt(n)), rows = ceil(n/cols)
func NewGrid(n int) Grid {
	if n < 1 {
		n = 1
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	return Grid{Cols: cols, Rows: rows}
}

// String returns the grid as "colsxrows"
func (g Grid) String() string { return fmt.Sprintf("%dx%d", g.Cols, g.Rows) }

// Cells returns the number of cells in the grid
func (g Grid) Cells() int { return g.Cols * g.Rows }

// Cell returns the rectangle of cell j inside the content rectangle, before any inset
func (g Grid) Cell(content Rect, j int) Rect {
	cellWidth := content.Width / float64(g.Cols)
	cellHeight := content.Height / float64(g.Rows)
	row := j / g.Cols
	col := j % g.Cols
	return Rect{
		X:      content.X + float64(col)*cellWidth,
		Y:      content.Y + float64(row)*cellHeight,
		Width:  cellWidth,
		Height: cellHeight,
	}
}
