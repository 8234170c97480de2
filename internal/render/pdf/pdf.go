package pdf

import (
	"context"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/gompdf/img2pdf/internal/faults"
	"github.com/gompdf/img2pdf/internal/layout"
)

// Source resolves an image identifier to its encoded bytes
type Source interface {
	ImageBytes(id string) ([]byte, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(id string) ([]byte, error)

// ImageBytes implements Source
func (f SourceFunc) ImageBytes(id string) ([]byte, error) { return f(id) }

// Renderer emits planned pages as a PDF document
type Renderer struct {
	Decoder      Decoder
	Recompressor Recompressor
	// NewEncoder creates the document builder for one run
	NewEncoder func(Metadata) Encoder
	Sink       Sink
	// Workers bounds concurrent decoding; zero means GOMAXPROCS
	Workers int
	Logger  *log.Logger
}

// RenderOptions contains options for rendering
type RenderOptions struct {
	Metadata
	// Quality is the JPEG quality factor in [0, 1]
	Quality float64
}

// NewRenderer creates a renderer with the default collaborators saving to sink
func NewRenderer(sink Sink) *Renderer {
	return &Renderer{
		Decoder:      ImageDecoder{},
		Recompressor: NewJPEGRecompressor(),
		NewEncoder:   func(m Metadata) Encoder { return NewFpdfEncoder(m) },
		Sink:         sink,
		Logger:       log.New(io.Discard),
	}
}

// Render decodes and recompresses every placed image, draws the pages in
// order and hands the document to the sink as filename + ".pdf".
//
// Images are prepared concurrently but always drawn in plan order. Any
// failure aborts the run before anything reaches the sink.
func (r *Renderer) Render(ctx context.Context, pages []layout.Page, src Source, filename string, opts RenderOptions) error {
	placements := 0
	for _, p := range pages {
		placements += len(p.Placements)
	}
	if placements == 0 {
		return faults.EmptyInput()
	}

	logger := r.logger()
	logger.Debug("Rendering document", "pages", len(pages), "images", placements, "quality", opts.Quality)

	encoded, err := r.prepare(ctx, pages, src, opts.Quality)
	if err != nil {
		return err
	}

	enc := r.NewEncoder(opts.Metadata)
	i := 0
	for _, page := range pages {
		if err := enc.StartPage(page.Geometry); err != nil {
			return faults.Encoding(err)
		}
		for _, pl := range page.Placements {
			if err := enc.PlaceImage(pl.Image.ID, encoded[i], pl.Rect); err != nil {
				return faults.Encoding(err)
			}
			logger.Debug("Placed image", "page", page.Index+1, "name", displayName(pl.Image),
				"x", pl.Rect.X, "y", pl.Rect.Y, "w", pl.Rect.Width, "h", pl.Rect.Height)
			i++
		}
	}

	blob, err := enc.Serialize()
	if err != nil {
		return faults.Encoding(err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	name := filename + ".pdf"
	if err := r.Sink.Save(ctx, blob, name); err != nil {
		return faults.Save(err)
	}
	logger.Debug("Saved document", "file", name, "bytes", len(blob))
	return nil
}

// prepare decodes and recompresses every placed image. Results are indexed by
// position in the flattened plan so completion order does not matter.
func (r *Renderer) prepare(ctx context.Context, pages []layout.Page, src Source, quality float64) ([][]byte, error) {
	var images []layout.Image
	for _, p := range pages {
		for _, pl := range p.Placements {
			images = append(images, pl.Image)
		}
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	encoded := make([][]byte, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, im := range images {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := displayName(im)

			data, err := src.ImageBytes(im.ID)
			if err != nil {
				return faults.Decode(name, err)
			}
			pixels, err := r.Decoder.Decode(gctx, name, data)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				return faults.Decode(name, err)
			}
			out, err := r.Recompressor.Recompress(pixels, quality)
			if err != nil {
				return faults.Encoding(err)
			}
			encoded[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return encoded, nil
}

func (r *Renderer) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.New(io.Discard)
}

func displayName(im layout.Image) string {
	if im.Name != "" {
		return im.Name
	}
	return im.ID
}
