package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gompdf/img2pdf/internal/estimate"
	"github.com/gompdf/img2pdf/internal/faults"
	"github.com/gompdf/img2pdf/internal/layout"
	"github.com/gompdf/img2pdf/internal/render/pdf"
	"github.com/gompdf/img2pdf/internal/res"
)

// Error sentinels, matched with errors.Is
var (
	ErrEmptyInput     = faults.ErrEmptyInput
	ErrInvalidOptions = faults.ErrInvalidOptions
	ErrDecode         = faults.ErrDecode
	ErrEncoding       = faults.ErrEncoding
	ErrSave           = faults.ErrSave

	// ErrBusy is returned when a generation is started while another one runs
	ErrBusy = errors.New("generation already in progress")
)

// Error is the structured failure returned by generation
type Error = faults.Error

// Page is the placement plan of one output page
type Page = layout.Page

// Placement is where one image is drawn
type Placement = layout.Placement

// Rect is a rectangle in millimeters
type Rect = layout.Rect

// Sink receives the finished document
type Sink = pdf.Sink

// ImageInfo describes one image held by a converter
type ImageInfo struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Source   string `yaml:"source,omitempty" json:"source,omitempty"`
	MimeType string `yaml:"mime_type" json:"mime_type"`
	Width    int    `yaml:"width" json:"width"`
	Height   int    `yaml:"height" json:"height"`
	Size     int64  `yaml:"size" json:"size"`
}

// Converter is the main API for assembling images into a PDF.
//
// A converter owns an ordered image list. Images are added, removed and
// reordered through it and their bytes are released when removed or when the
// converter is closed.
type Converter struct {
	mu         sync.RWMutex
	options    Options
	loader     *res.Loader
	library    *res.Library
	logger     *log.Logger
	generating atomic.Bool
}

// New creates a new converter with default options
func New() *Converter {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a new converter with the specified options
func NewWithOptions(options Options, opts ...Option) *Converter {
	for _, opt := range opts {
		opt(&options)
	}

	loader := res.NewLoader("")
	for _, path := range options.ResourcePaths {
		loader.AddSearchPath(path)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Prefix:          "img2pdf",
		Level:           log.InfoLevel,
	})
	if options.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	library := res.NewLibrary(loader)
	library.SetLogger(logger)

	return &Converter{
		options: options,
		loader:  loader,
		library: library,
		logger:  logger,
	}
}

// Options returns a copy of the converter's options
func (c *Converter) Options() Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o := c.options
	o.ResourcePaths = append([]string(nil), c.options.ResourcePaths...)
	return o
}

// SetOptions replaces the options used by later calls. The image list is
// kept. A generation already running keeps the options it started with.
func (c *Converter) SetOptions(options Options) {
	options.ResourcePaths = append([]string(nil), options.ResourcePaths...)
	for _, path := range options.ResourcePaths {
		c.loader.AddSearchPath(path)
	}

	c.mu.Lock()
	c.options = options
	logger := c.logger
	c.mu.Unlock()

	if options.Debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}

// SetLogger replaces the converter's logger
func (c *Converter) SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	c.mu.Lock()
	c.logger = l
	c.mu.Unlock()
	c.library.SetLogger(l)
}

// snapshot returns the options and logger for one call
func (c *Converter) snapshot() (Options, *log.Logger) {
	return c.Options(), c.log()
}

func (c *Converter) log() *log.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// SetHTTPClient sets the client used for remote images
func (c *Converter) SetHTTPClient(client *http.Client) {
	c.loader.SetHTTPClient(client)
}

// AddImage appends the image at ref: a file path, an http(s) URL or a data URL
func (c *Converter) AddImage(ctx context.Context, ref string) (ImageInfo, error) {
	a, err := c.library.Add(ctx, ref)
	if err != nil {
		return ImageInfo{}, err
	}
	return infoOf(a), nil
}

// AddImageBytes appends an image supplied as encoded bytes
func (c *Converter) AddImageBytes(name string, data []byte) (ImageInfo, error) {
	a, err := c.library.AddBytes(name, data)
	if err != nil {
		return ImageInfo{}, err
	}
	return infoOf(a), nil
}

// AddImageReader appends an image read from r
func (c *Converter) AddImageReader(name string, r io.Reader) (ImageInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImageInfo{}, faults.Decode(name, err)
	}
	return c.AddImageBytes(name, data)
}

// AddDirectory appends every image file in dir in natural name order
func (c *Converter) AddDirectory(ctx context.Context, dir string) ([]ImageInfo, error) {
	assets, err := c.library.AddDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	return infosOf(assets), nil
}

// AddGallery appends the images of an HTML page in document order
func (c *Converter) AddGallery(ctx context.Context, ref string) ([]ImageInfo, error) {
	assets, err := c.library.AddGallery(ctx, ref)
	if err != nil {
		return nil, err
	}
	return infosOf(assets), nil
}

// Remove removes the image with the given id
func (c *Converter) Remove(id string) bool {
	return c.library.Remove(id)
}

// Move moves the image at index from to index to, clamped to the list bounds
func (c *Converter) Move(from, to int) {
	c.library.Move(from, to)
}

// Images returns the image list in page-fill order
func (c *Converter) Images() []ImageInfo {
	return infosOf(c.library.Assets())
}

// Len returns the number of images
func (c *Converter) Len() int {
	return c.library.Len()
}

// Clear removes every image
func (c *Converter) Clear() {
	c.library.Clear()
}

// Close releases every image held by the converter
func (c *Converter) Close() error {
	return c.library.Close()
}

// Plan returns the placement plan for the current images and options
func (c *Converter) Plan() ([]Page, error) {
	return c.plan(c.Options(), c.library.Assets())
}

func (c *Converter) plan(opts Options, assets []*res.Asset) ([]Page, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, faults.EmptyInput()
	}
	images := make([]layout.Image, len(assets))
	for i, a := range assets {
		images[i] = a.LayoutImage()
	}
	return layout.Plan(images, opts.layoutOptions()), nil
}

// PageCount returns the number of pages the current images will fill
func (c *Converter) PageCount() int {
	return layout.PageCount(c.library.Len(), layout.NormalizePerPage(c.Options().ImagesPerPage))
}

// EstimateBytes returns the approximate document size in bytes
func (c *Converter) EstimateBytes() float64 {
	return estimate.Bytes(c.sizes(), c.Options().Quality)
}

// Estimate returns the approximate document size formatted for display
func (c *Converter) Estimate() string {
	return estimate.Estimate(c.sizes(), c.Options().Quality)
}

// Generate renders the current images and hands the document to sink as
// Options.Filename + ".pdf". Nothing reaches the sink when any step fails.
func (c *Converter) Generate(ctx context.Context, sink Sink) error {
	return c.generate(ctx, sink, "")
}

// generate runs one generation. The options and image list are captured once
// at the start; an empty filename means Options.Filename.
func (c *Converter) generate(ctx context.Context, sink Sink, filename string) error {
	if !c.generating.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.generating.Store(false)

	opts, logger := c.snapshot()
	if filename == "" {
		filename = opts.filename()
	}
	assets := c.library.Assets()
	if len(assets) == 0 {
		return faults.EmptyInput()
	}
	pages, err := c.plan(opts, assets)
	if err != nil {
		return err
	}

	start := time.Now()
	renderer := pdf.NewRenderer(sink)
	renderer.Workers = opts.Workers
	renderer.Logger = logger

	err = renderer.Render(ctx, pages, c.library, filename, pdf.RenderOptions{
		Metadata: pdf.Metadata{
			Title:    opts.Title,
			Author:   opts.Author,
			Subject:  opts.Subject,
			Keywords: opts.Keywords,
			Creator:  "img2pdf",
			Producer: "img2pdf",
		},
		Quality: opts.Quality,
	})
	if err != nil {
		logger.Error("Generation failed", "err", err)
		return err
	}
	logger.Info("Generated document", "file", filename+".pdf",
		"pages", len(pages), "images", len(assets), "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// Generating reports whether a generation is running
func (c *Converter) Generating() bool {
	return c.generating.Load()
}

// ConvertToFile generates the document and writes it to outputPath. The
// ".pdf" extension is added when missing; an existing one in any case is
// written as ".pdf".
func (c *Converter) ConvertToFile(ctx context.Context, outputPath string) error {
	dir, name := filepath.Split(outputPath)
	if dir == "" {
		dir = "."
	}
	return c.generate(ctx, pdf.NewFileSink(dir), trimPDFExt(name))
}

// ConvertToDir generates the document into dir under Options.Filename
func (c *Converter) ConvertToDir(ctx context.Context, dir string) error {
	return c.Generate(ctx, pdf.NewFileSink(dir))
}

// Convert generates the document and writes it to output
func (c *Converter) Convert(ctx context.Context, output io.Writer) error {
	return c.Generate(ctx, &pdf.WriterSink{W: output})
}

// ConvertBytes generates the document and returns its bytes
func (c *Converter) ConvertBytes(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Convert(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WithOption returns a new converter with the option applied. The new
// converter starts with an empty image list.
func (c *Converter) WithOption(option Option) *Converter {
	return NewWithOptions(c.Options(), option)
}

func (c *Converter) sizes() []int64 {
	assets := c.library.Assets()
	sizes := make([]int64, len(assets))
	for i, a := range assets {
		sizes[i] = a.Size
	}
	return sizes
}

func infoOf(a *res.Asset) ImageInfo {
	return ImageInfo{
		ID:       a.ID,
		Name:     a.Name,
		Source:   a.Source,
		MimeType: a.MimeType,
		Width:    a.Width,
		Height:   a.Height,
		Size:     a.Size,
	}
}

func infosOf(assets []*res.Asset) []ImageInfo {
	out := make([]ImageInfo, len(assets))
	for i, a := range assets {
		out[i] = infoOf(a)
	}
	return out
}
