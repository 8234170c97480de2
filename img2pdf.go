package img2pdf

import (
	"github.com/gompdf/img2pdf/pkg/api"
)

type Converter = api.Converter
type Options = api.Options
type Option = api.Option
type PageOrientation = api.PageOrientation
type PageFormat = api.PageFormat
type ImageInfo = api.ImageInfo
type Page = api.Page
type Placement = api.Placement
type Rect = api.Rect
type Sink = api.Sink
type Config = api.Config
type Error = api.Error

func New() *Converter { return api.New() }
func NewWithOptions(options Options, opts ...Option) *Converter {
	return api.NewWithOptions(options, opts...)
}
func DefaultOptions() Options                 { return api.DefaultOptions() }
func LoadConfig(path string) (*Config, error) { return api.LoadConfig(path) }

var (
	WithFormat          = api.WithFormat
	WithPageSizeA4      = api.WithPageSizeA4
	WithPageSizeLetter  = api.WithPageSizeLetter
	WithPageSizeLegal   = api.WithPageSizeLegal
	WithPageOrientation = api.WithPageOrientation
	WithMargin          = api.WithMargin
	WithImagesPerPage   = api.WithImagesPerPage
	WithQuality         = api.WithQuality
	WithFilename        = api.WithFilename
	WithDebug           = api.WithDebug
	WithWorkers         = api.WithWorkers
	WithResourcePath    = api.WithResourcePath
	WithTitle           = api.WithTitle
	WithAuthor          = api.WithAuthor
	WithSubject         = api.WithSubject
	WithKeywords        = api.WithKeywords
)

var (
	ErrEmptyInput     = api.ErrEmptyInput
	ErrInvalidOptions = api.ErrInvalidOptions
	ErrDecode         = api.ErrDecode
	ErrEncoding       = api.ErrEncoding
	ErrSave           = api.ErrSave
	ErrBusy           = api.ErrBusy
)

const (
	PageFormatA4     = api.PageFormatA4
	PageFormatLetter = api.PageFormatLetter
	PageFormatLegal  = api.PageFormatLegal

	PageOrientationPortrait  = api.PageOrientationPortrait
	PageOrientationLandscape = api.PageOrientationLandscape

	DefaultFilename = api.DefaultFilename
)
