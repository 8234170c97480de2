package api

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gompdf/img2pdf/internal/faults"
	"github.com/gompdf/img2pdf/internal/layout"
)

// Options represents configuration options for the image to PDF converter
type Options struct {
	// Page format: a4, letter or legal
	Format PageFormat
	// Page orientation: portrait or landscape
	PageOrientation PageOrientation
	// Margin on every side, in millimeters
	Margin float64

	// Images per page: 1, 2, 4, 6 or 9
	ImagesPerPage int
	// JPEG quality factor between 0.1 and 1.0
	Quality float64

	// Output filename without the .pdf extension
	Filename string

	// Rendering options
	Debug bool
	// Concurrent decoders; zero means one per CPU
	Workers int

	// Resource paths searched for relative image references
	ResourcePaths []string

	// Document metadata
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// Option is a function that modifies Options
type Option func(*Options)

// PageOrientation represents page orientation
type PageOrientation = layout.Orientation

// PageFormat names a supported paper size
type PageFormat = layout.Format

const (
	// PageOrientationPortrait sets the page to portrait orientation
	PageOrientationPortrait = layout.Portrait
	// PageOrientationLandscape sets the page to landscape orientation
	PageOrientationLandscape = layout.Landscape

	PageFormatA4     = layout.FormatA4
	PageFormatLetter = layout.FormatLetter
	PageFormatLegal  = layout.FormatLegal
)

// Validated ranges
const (
	MinQuality = 0.1
	MaxQuality = 1.0
	MinMargin  = 0.0
	MaxMargin  = 30.0

	// DefaultFilename is used when Options.Filename is empty
	DefaultFilename = "images-to-pdf"
)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Format:          PageFormatA4,
		PageOrientation: PageOrientationPortrait,
		Margin:          10,

		ImagesPerPage: 1,
		Quality:       0.8,

		Filename: DefaultFilename,

		ResourcePaths: []string{},
	}
}

// Validate reports the first option outside its supported range
func (o Options) Validate() error {
	if _, ok := o.Format.Size(); !ok {
		return faults.InvalidOptions("unsupported page format %q", o.Format)
	}
	switch o.PageOrientation {
	case PageOrientationPortrait, PageOrientationLandscape:
	default:
		return faults.InvalidOptions("unsupported orientation %q", o.PageOrientation)
	}
	if !(o.Margin >= MinMargin && o.Margin <= MaxMargin) {
		return faults.InvalidOptions("margin %g outside [%g, %g]", o.Margin, MinMargin, MaxMargin)
	}
	if !layout.IsSupportedPerPage(o.ImagesPerPage) {
		return faults.InvalidOptions("images per page must be one of %v, got %d", layout.SupportedPerPage(), o.ImagesPerPage)
	}
	if !(o.Quality >= MinQuality && o.Quality <= MaxQuality) {
		return faults.InvalidOptions("quality %g outside [%g, %g]", o.Quality, MinQuality, MaxQuality)
	}
	if o.Workers < 0 {
		return faults.InvalidOptions("workers must not be negative")
	}
	if strings.ContainsAny(o.Filename, `/\`) {
		return faults.InvalidOptions("filename %q must not contain a path separator", o.Filename)
	}
	return nil
}

// layoutOptions converts to the planner's parameters
func (o Options) layoutOptions() layout.Options {
	return layout.Options{
		Format:        o.Format,
		Orientation:   o.PageOrientation,
		Margin:        o.Margin,
		ImagesPerPage: o.ImagesPerPage,
		Quality:       o.Quality,
	}
}

func (o Options) filename() string {
	if o.Filename == "" {
		return DefaultFilename
	}
	return o.Filename
}

// String summarizes the layout parameters
func (o Options) String() string {
	return fmt.Sprintf("%s %s, margin %gmm, %d per page, quality %.0f%%",
		o.Format, o.PageOrientation, o.Margin, o.ImagesPerPage, o.Quality*100)
}

// WithFormat sets the page format
func WithFormat(format PageFormat) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithPageSizeA4 sets the page format to A4
func WithPageSizeA4() Option {
	return WithFormat(PageFormatA4)
}

// WithPageSizeLetter sets the page format to US Letter
func WithPageSizeLetter() Option {
	return WithFormat(PageFormatLetter)
}

// WithPageSizeLegal sets the page format to US Legal
func WithPageSizeLegal() Option {
	return WithFormat(PageFormatLegal)
}

// WithPageOrientation sets the page orientation
func WithPageOrientation(orientation PageOrientation) Option {
	return func(o *Options) {
		o.PageOrientation = orientation
	}
}

// WithMargin sets the margin in millimeters
func WithMargin(mm float64) Option {
	return func(o *Options) {
		o.Margin = mm
	}
}

// WithImagesPerPage sets how many images share a page
func WithImagesPerPage(n int) Option {
	return func(o *Options) {
		o.ImagesPerPage = n
	}
}

// WithQuality sets the JPEG quality factor
func WithQuality(q float64) Option {
	return func(o *Options) {
		o.Quality = q
	}
}

// WithFilename sets the output filename, without extension
func WithFilename(name string) Option {
	return func(o *Options) {
		o.Filename = trimPDFExt(name)
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithWorkers bounds concurrent image decoding
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithResourcePath adds a path to search for images
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

// trimPDFExt drops a trailing .pdf extension in any letter case
func trimPDFExt(name string) string {
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".pdf") {
		return strings.TrimSuffix(name, ext)
	}
	return name
}
