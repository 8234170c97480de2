package pdf

import (
	"bytes"
	"context"
	"image"

	// Register a broad set of image decoders so image.Decode can handle many formats.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Decoder turns encoded image bytes into pixels
type Decoder interface {
	Decode(ctx context.Context, name string, data []byte) (image.Image, error)
}

// ImageDecoder decodes every format registered with the image package
type ImageDecoder struct{}

// Decode decodes data. name is used only by callers for error reporting.
func (ImageDecoder) Decode(ctx context.Context, name string, data []byte) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}
