package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gompdf/img2pdf/internal/layout"
	"github.com/gompdf/img2pdf/pkg/api"
)

// configEnv names a configuration file used when --config is not given
const configEnv = "IMG2PDF_CONFIG"

// layoutFlags holds the flag values shared by every command
type layoutFlags struct {
	format      string
	orientation string
	margin      float64
	perPage     int
	quality     float64
	workers     int
	paths       []string
	galleries   []string
}

func (f *layoutFlags) register(fs *pflag.FlagSet) {
	def := api.DefaultOptions()
	fs.StringVarP(&f.format, "format", "f", string(def.Format), "page format: a4, letter or legal")
	fs.StringVar(&f.orientation, "orientation", string(def.PageOrientation), "page orientation: portrait or landscape")
	fs.Float64VarP(&f.margin, "margin", "m", def.Margin, "page margin in millimeters (0-30)")
	fs.IntVarP(&f.perPage, "per-page", "n", def.ImagesPerPage, "images per page: 1, 2, 4, 6 or 9")
	fs.Float64VarP(&f.quality, "quality", "q", def.Quality, "JPEG quality (0.1-1.0)")
	fs.IntVar(&f.workers, "workers", 0, "concurrent image decoders (0 = one per CPU)")
	fs.StringSliceVar(&f.paths, "path", nil, "directory searched for relative image references (repeatable)")
	fs.StringSliceVar(&f.galleries, "html", nil, "HTML page whose <img> elements are added (repeatable)")
}

// docFlags holds document metadata flags
type docFlags struct {
	title    string
	author   string
	subject  string
	keywords string
}

func (f *docFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "document title")
	fs.StringVar(&f.author, "author", "", "document author")
	fs.StringVar(&f.subject, "subject", "", "document subject")
	fs.StringVar(&f.keywords, "keywords", "", "document keywords")
}

// resolveOptions builds converter options from the defaults, the
// configuration file and the flags explicitly set on cmd, in that order.
func resolveOptions(cmd *cobra.Command, lf *layoutFlags, df *docFlags) (api.Options, error) {
	opts := api.DefaultOptions()

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path != "" {
		cfg, err := api.LoadConfig(path)
		if err != nil {
			return api.Options{}, err
		}
		if err := cfg.Apply(&opts); err != nil {
			return api.Options{}, fmt.Errorf("%s: %w", path, err)
		}
		loggerFromContext(cmd.Context()).Debug("Loaded config", "path", path)
	}

	fs := cmd.Flags()
	if fs.Changed("format") {
		f, err := layout.ParseFormat(lf.format)
		if err != nil {
			return api.Options{}, err
		}
		opts.Format = f
	}
	if fs.Changed("orientation") {
		o, err := layout.ParseOrientation(lf.orientation)
		if err != nil {
			return api.Options{}, err
		}
		opts.PageOrientation = o
	}
	if fs.Changed("margin") {
		opts.Margin = lf.margin
	}
	if fs.Changed("per-page") {
		opts.ImagesPerPage = lf.perPage
	}
	if fs.Changed("quality") {
		opts.Quality = lf.quality
	}
	if fs.Changed("workers") {
		opts.Workers = lf.workers
	}
	opts.ResourcePaths = append(opts.ResourcePaths, lf.paths...)

	if df != nil {
		if fs.Changed("title") {
			opts.Title = df.title
		}
		if fs.Changed("author") {
			opts.Author = df.author
		}
		if fs.Changed("subject") {
			opts.Subject = df.subject
		}
		if fs.Changed("keywords") {
			opts.Keywords = df.keywords
		}
	}

	if err := opts.Validate(); err != nil {
		return api.Options{}, err
	}
	return opts, nil
}
