package pdf

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Recompressor re-encodes decoded pixels for embedding in the document
type Recompressor interface {
	Recompress(img image.Image, quality float64) ([]byte, error)
}

// JPEGRecompressor encodes images as baseline JPEG. Images with transparency
// are flattened onto Background first since JPEG has no alpha channel.
type JPEGRecompressor struct {
	Background color.Color
}

// NewJPEGRecompressor returns a recompressor that flattens onto white
func NewJPEGRecompressor() *JPEGRecompressor {
	return &JPEGRecompressor{Background: color.White}
}

// Recompress encodes img at quality in [0, 1]
func (j *JPEGRecompressor) Recompress(img image.Image, quality float64) ([]byte, error) {
	if o, ok := img.(interface{ Opaque() bool }); !ok || !o.Opaque() {
		bg := j.Background
		if bg == nil {
			bg = color.White
		}
		b := img.Bounds()
		canvas := imaging.New(b.Dx(), b.Dy(), bg)
		img = imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality(quality))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JPEGQuality maps a quality factor in [0, 1] to the JPEG 1-100 scale
func JPEGQuality(q float64) int {
	v := int(math.Round(q * 100))
	if v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}
