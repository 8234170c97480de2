package api

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/gompdf/img2pdf/internal/layout"
)

// Config mirrors the TOML configuration file:
//
//	[page]
//	format = "letter"
//	orientation = "landscape"
//	margin = 5.0
//
//	[images]
//	per_page = 4
//	quality = 0.7
//	paths = ["./photos"]
//
//	[document]
//	filename = "holiday"
//	title = "Holiday 2024"
type Config struct {
	Page     PageConfig     `toml:"page"`
	Images   ImagesConfig   `toml:"images"`
	Document DocumentConfig `toml:"document"`

	md toml.MetaData
}

type PageConfig struct {
	Format      string  `toml:"format"`
	Orientation string  `toml:"orientation"`
	Margin      float64 `toml:"margin"`
}

type ImagesConfig struct {
	PerPage int      `toml:"per_page"`
	Quality float64  `toml:"quality"`
	Workers int      `toml:"workers"`
	Paths   []string `toml:"paths"`
}

type DocumentConfig struct {
	Filename string `toml:"filename"`
	Title    string `toml:"title"`
	Author   string `toml:"author"`
	Subject  string `toml:"subject"`
	Keywords string `toml:"keywords"`
}

// LoadConfig reads a TOML configuration file
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig parses TOML configuration from r. Unknown keys are rejected.
func DecodeConfig(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	cfg.md = md
	return &cfg, nil
}

// Apply overlays the keys present in the file onto opts
func (c *Config) Apply(opts *Options) error {
	if c.defined("page", "format") {
		f, err := layout.ParseFormat(c.Page.Format)
		if err != nil {
			return err
		}
		opts.Format = f
	}
	if c.defined("page", "orientation") {
		o, err := layout.ParseOrientation(c.Page.Orientation)
		if err != nil {
			return err
		}
		opts.PageOrientation = o
	}
	if c.defined("page", "margin") {
		opts.Margin = c.Page.Margin
	}

	if c.defined("images", "per_page") {
		opts.ImagesPerPage = c.Images.PerPage
	}
	if c.defined("images", "quality") {
		opts.Quality = c.Images.Quality
	}
	if c.defined("images", "workers") {
		opts.Workers = c.Images.Workers
	}
	opts.ResourcePaths = append(opts.ResourcePaths, c.Images.Paths...)

	doc := c.Document
	if doc.Filename != "" {
		WithFilename(doc.Filename)(opts)
	}
	if doc.Title != "" {
		opts.Title = doc.Title
	}
	if doc.Author != "" {
		opts.Author = doc.Author
	}
	if doc.Subject != "" {
		opts.Subject = doc.Subject
	}
	if doc.Keywords != "" {
		opts.Keywords = doc.Keywords
	}
	return nil
}

// Options returns the defaults overlaid with the file's settings
func (c *Config) Options() (Options, error) {
	opts := DefaultOptions()
	if err := c.Apply(&opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func (c *Config) defined(key ...string) bool {
	return c.md.IsDefined(key...)
}
