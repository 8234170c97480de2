package pdf

import (
	"bytes"
	"fmt"
	"math"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gompdf/img2pdf/internal/layout"
)

// Encoder builds the output document one page at a time
type Encoder interface {
	// StartPage appends a page with the given geometry and makes it current
	StartPage(g layout.Geometry) error
	// PlaceImage draws JPEG data into rect on the current page
	PlaceImage(name string, jpeg []byte, rect layout.Rect) error
	// Serialize finishes the document and returns its bytes
	Serialize() ([]byte, error)
}

// Metadata is written into the document information dictionary
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

// FpdfEncoder is an Encoder backed by fpdf, in millimeters
type FpdfEncoder struct {
	pdf    *fpdf.Fpdf
	pages  int
	images int
}

// NewFpdfEncoder creates an empty document carrying meta
func NewFpdfEncoder(meta Metadata) *FpdfEncoder {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCompression(true)
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetKeywords(meta.Keywords, true)
	pdf.SetCreator(meta.Creator, true)
	pdf.SetProducer(meta.Producer, true)
	return &FpdfEncoder{pdf: pdf}
}

// StartPage implements Encoder
func (e *FpdfEncoder) StartPage(g layout.Geometry) error {
	if !(g.PageWidth > 0) || !(g.PageHeight > 0) {
		return fmt.Errorf("invalid page size %.2fx%.2f", g.PageWidth, g.PageHeight)
	}

	// fpdf takes the portrait size and swaps it for landscape pages
	orientation := "P"
	if g.PageWidth > g.PageHeight {
		orientation = "L"
	}
	size := fpdf.SizeType{
		Wd: math.Min(g.PageWidth, g.PageHeight),
		Ht: math.Max(g.PageWidth, g.PageHeight),
	}
	e.pdf.AddPageFormat(orientation, size)
	e.pages++
	return e.pdf.Error()
}

// PlaceImage implements Encoder
func (e *FpdfEncoder) PlaceImage(name string, jpeg []byte, rect layout.Rect) error {
	if e.pages == 0 {
		return fmt.Errorf("no page started before placing %s", name)
	}
	if !(rect.Width > 0) || !(rect.Height > 0) {
		return fmt.Errorf("empty placement for %s", name)
	}

	// Image names are document-global in fpdf; number them to keep repeats distinct
	e.images++
	key := fmt.Sprintf("%s#%d", name, e.images)
	opts := fpdf.ImageOptions{ImageType: "JPG"}

	e.pdf.RegisterImageOptionsReader(key, opts, bytes.NewReader(jpeg))
	if err := e.pdf.Error(); err != nil {
		return fmt.Errorf("failed to register %s: %w", name, err)
	}
	e.pdf.ImageOptions(key, rect.X, rect.Y, rect.Width, rect.Height, false, opts, 0, "")
	return e.pdf.Error()
}

// Serialize implements Encoder
func (e *FpdfEncoder) Serialize() ([]byte, error) {
	if e.pages == 0 {
		return nil, fmt.Errorf("document has no pages")
	}
	var buf bytes.Buffer
	if err := e.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PageCount returns the number of pages started
func (e *FpdfEncoder) PageCount() int { return e.pages }
