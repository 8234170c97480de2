package pdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gompdf/img2pdf/internal/layout"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x * 10), B: uint8(y * 10), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestFpdfEncoder(t *testing.T) {
	enc := NewFpdfEncoder(Metadata{Title: "Test", Author: "Tester"})
	data := jpegBytes(t, 12, 8)

	portrait := layout.NewGeometry(layout.FormatA4, layout.Portrait, 10)
	landscape := layout.NewGeometry(layout.FormatLegal, layout.Landscape, 10)

	if err := enc.StartPage(portrait); err != nil {
		t.Fatalf("StartPage() error = %v", err)
	}
	if err := enc.PlaceImage("a", data, layout.Rect{X: 10, Y: 10, Width: 60, Height: 40}); err != nil {
		t.Fatalf("PlaceImage() error = %v", err)
	}
	// The same name twice must not collide
	if err := enc.PlaceImage("a", data, layout.Rect{X: 10, Y: 60, Width: 60, Height: 40}); err != nil {
		t.Fatalf("PlaceImage() repeat error = %v", err)
	}
	if err := enc.StartPage(landscape); err != nil {
		t.Fatalf("StartPage() error = %v", err)
	}
	if err := enc.PlaceImage("b", data, layout.Rect{X: 20, Y: 20, Width: 90, Height: 60}); err != nil {
		t.Fatalf("PlaceImage() error = %v", err)
	}

	out, err := enc.Serialize()
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("output should start with a PDF header")
	}
	if got := countPages(string(out)); got != 2 || enc.PageCount() != 2 {
		t.Errorf("pages = %d (counted %d), want 2", enc.PageCount(), got)
	}
}

func TestFpdfEncoderErrors(t *testing.T) {
	enc := NewFpdfEncoder(Metadata{})
	if err := enc.PlaceImage("a", jpegBytes(t, 2, 2), layout.Rect{Width: 1, Height: 1}); err == nil {
		t.Error("PlaceImage() before StartPage should fail")
	}
	if _, err := enc.Serialize(); err == nil {
		t.Error("Serialize() without pages should fail")
	}
	if err := enc.StartPage(layout.Geometry{}); err == nil {
		t.Error("StartPage() with an empty page should fail")
	}
	if err := enc.StartPage(layout.Geometry{PageWidth: math.NaN(), PageHeight: 297}); err == nil {
		t.Error("StartPage() with a NaN width should fail")
	}

	enc = NewFpdfEncoder(Metadata{})
	if err := enc.StartPage(layout.NewGeometry(layout.FormatA4, layout.Portrait, 0)); err != nil {
		t.Fatal(err)
	}
	if err := enc.PlaceImage("a", jpegBytes(t, 2, 2), layout.Rect{Width: 0, Height: 5}); err == nil {
		t.Error("PlaceImage() with an empty rect should fail")
	}
	if err := enc.PlaceImage("a", jpegBytes(t, 2, 2), layout.Rect{X: math.NaN(), Y: math.NaN(), Width: math.NaN(), Height: math.NaN()}); err == nil {
		t.Error("PlaceImage() with a NaN rect should fail")
	}
	if err := enc.PlaceImage("junk", []byte("not a jpeg"), layout.Rect{Width: 5, Height: 5}); err == nil {
		t.Error("PlaceImage() with invalid data should fail")
	}
}

func TestJPEGRecompressor(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 6))
	// fully transparent: must come out white, not black
	out, err := NewJPEGRecompressor().Recompress(src, 0.9)
	if err != nil {
		t.Fatalf("Recompress() error = %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output does not decode: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 6 {
		t.Errorf("bounds = %v, want 10x6", b)
	}
	r, g, b, _ := img.At(5, 3).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("transparent pixel flattened to %d,%d,%d; want near white", r>>8, g>>8, b>>8)
	}
}

func TestJPEGRecompressorQualityAffectsSize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: uint8((x ^ y) * 4), A: 255})
		}
	}
	rc := NewJPEGRecompressor()
	low, err := rc.Recompress(src, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	high, err := rc.Recompress(src, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if len(low) >= len(high) {
		t.Errorf("quality 0.1 produced %d bytes, quality 1.0 produced %d", len(low), len(high))
	}
}

func TestJPEGQuality(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 1}, {0.1, 10}, {0.25, 25}, {0.8, 80}, {1, 100}, {1.5, 100}, {-1, 1},
	}
	for _, tt := range tests {
		if got := JPEGQuality(tt.in); got != tt.want {
			t.Errorf("JPEGQuality(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := NewFileSink(dir)

	if err := sink.Save(context.Background(), []byte("%PDF-1.3"), "doc.pdf"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "doc.pdf"))
	if err != nil || string(data) != "%PDF-1.3" {
		t.Fatalf("saved file = %q, %v", data, err)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temporary file %s left behind", e.Name())
		}
	}
}

func TestFileSinkFailure(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Dir is a regular file, so nothing can be created inside it
	sink := NewFileSink(blocker)
	if err := sink.Save(context.Background(), []byte("data"), "doc.pdf"); err == nil {
		t.Error("Save() into a file path should fail")
	}
}

func TestFileSinkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	if err := NewFileSink(dir).Save(ctx, []byte("x"), "doc.pdf"); err == nil {
		t.Error("Save() with a canceled context should fail")
	}
	if _, err := os.Stat(filepath.Join(dir, "doc.pdf")); !os.IsNotExist(err) {
		t.Error("no file should be written after cancellation")
	}
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := &WriterSink{W: &buf}
	if err := sink.Save(context.Background(), []byte("blob"), "a.pdf"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "blob" || sink.Name != "a.pdf" {
		t.Errorf("got %q as %q", buf.String(), sink.Name)
	}
}
