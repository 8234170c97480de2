package layout

import (
	"github.com/gompdf/img2pdf/internal/pagination"
)

// Image is the part of an image asset the planner reads
type Image struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

// AspectRatio returns width / height. Images without usable dimensions are
// treated as square.
func (im Image) AspectRatio() float64 {
	if im.Width <= 0 || im.Height <= 0 {
		return 1
	}
	return float64(im.Width) / float64(im.Height)
}

// Options are the layout parameters of one generation run
type Options struct {
	Format        Format
	Orientation   Orientation
	Margin        float64
	ImagesPerPage int
	// Quality affects emission only, never geometry
	Quality float64
}

// Placement is where one image is drawn on its page
type Placement struct {
	Image Image `yaml:"image" json:"image"`
	Rect  Rect  `yaml:"rect" json:"rect"`
}

// Page is the placement plan of one output page
type Page struct {
	Index      int         `yaml:"index" json:"index"`
	Geometry   Geometry    `yaml:"-" json:"-"`
	Grid       Grid        `yaml:"-" json:"-"`
	Placements []Placement `yaml:"placements" json:"placements"`
}

// Plan computes the placement of every image on every page.
//
// Images are split into consecutive chunks of ImagesPerPage, one page per
// chunk. With one image per page the image fits the whole content area;
// otherwise each image fits its grid cell after a CellInset on every side.
// Images keep their aspect ratio and are centered in their cell. Plan does not
// modify images and returns identical output for identical input.
func Plan(images []Image, opts Options) []Page {
	if len(images) == 0 {
		return nil
	}

	perPage := opts.ImagesPerPage
	if !IsSupportedPerPage(perPage) {
		perPage = NormalizePerPage(perPage)
	}

	geom := NewGeometry(opts.Format, opts.Orientation, opts.Margin)
	grid := NewGrid(perPage)
	content := geom.Content()

	chunks := pagination.Chunk(images, perPage)
	pages := make([]Page, 0, len(chunks))
	for i, chunk := range chunks {
		page := Page{
			Index:      i,
			Geometry:   geom,
			Grid:       grid,
			Placements: make([]Placement, 0, len(chunk)),
		}
		for j, im := range chunk {
			cell := content
			if perPage > 1 {
				cell = grid.Cell(content, j).Inset(CellInset)
			}
			page.Placements = append(page.Placements, Placement{
				Image: im,
				Rect:  Fit(im.AspectRatio(), cell),
			})
		}
		pages = append(pages, page)
	}
	return pages
}

// Fit returns the largest rectangle with aspect ratio r that fits inside cell,
// centered on both axes. Width is tried first and clamped by height.
func Fit(r float64, cell Rect) Rect {
	width := cell.Width
	height := width / r
	if height > cell.Height {
		height = cell.Height
		width = height * r
	}

	offsetX := (cell.Width - width) / 2
	offsetY := (cell.Height - height) / 2
	return Rect{
		X:      cell.X + offsetX,
		Y:      cell.Y + offsetY,
		Width:  width,
		Height: height,
	}
}

// PageCount returns the number of pages n images occupy with perPage images per page
func PageCount(n, perPage int) int {
	return pagination.PageCount(n, perPage)
}
