package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gompdf/img2pdf/internal/faults"
	"github.com/gompdf/img2pdf/internal/layout"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// fixture builds n images of varying shapes and the matching source
func fixture(t *testing.T, n int) ([]layout.Image, Source) {
	t.Helper()
	data := make(map[string][]byte, n)
	images := make([]layout.Image, n)
	for i := range images {
		w, h := 8+i%3*4, 6+i%2*6
		id := fmt.Sprintf("id-%d", i)
		images[i] = layout.Image{ID: id, Name: fmt.Sprintf("img%d.png", i), Width: w, Height: h}
		data[id] = pngBytes(t, w, h, color.NRGBA{R: uint8(20 * i), G: 100, B: 200, A: 255})
	}
	return images, SourceFunc(func(id string) ([]byte, error) {
		b, ok := data[id]
		if !ok {
			return nil, fmt.Errorf("unknown image %s", id)
		}
		return b, nil
	})
}

type call struct {
	op   string
	name string
	rect layout.Rect
}

// recordingEncoder records the calls the renderer makes
type recordingEncoder struct {
	calls         []call
	failOnPlace   string
	failSerialize bool
}

func (e *recordingEncoder) StartPage(g layout.Geometry) error {
	e.calls = append(e.calls, call{op: "page"})
	return nil
}

func (e *recordingEncoder) PlaceImage(name string, jpeg []byte, rect layout.Rect) error {
	if name == e.failOnPlace {
		return errors.New("encoder rejected placement")
	}
	if len(jpeg) == 0 {
		return errors.New("empty image data")
	}
	e.calls = append(e.calls, call{op: "image", name: name, rect: rect})
	return nil
}

func (e *recordingEncoder) Serialize() ([]byte, error) {
	if e.failSerialize {
		return nil, errors.New("serialize failed")
	}
	return []byte("%PDF-fake"), nil
}

type recordingSink struct {
	mu    sync.Mutex
	saves []string
	blob  []byte
	err   error
}

func (s *recordingSink) Save(ctx context.Context, blob []byte, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saves = append(s.saves, filename)
	s.blob = blob
	return nil
}

// slowDecoder finishes later images first and can fail on one name
type slowDecoder struct {
	failName string
}

func (d slowDecoder) Decode(ctx context.Context, name string, data []byte) (image.Image, error) {
	var i int
	fmt.Sscanf(name, "img%d.png", &i)
	select {
	case <-time.After(time.Duration(10-i%10) * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if name == d.failName {
		return nil, errors.New("corrupt data")
	}
	return ImageDecoder{}.Decode(ctx, name, data)
}

func testRenderer(enc *recordingEncoder, sink Sink) *Renderer {
	r := NewRenderer(sink)
	r.NewEncoder = func(Metadata) Encoder { return enc }
	return r
}

func TestRenderPreservesOrder(t *testing.T) {
	images, src := fixture(t, 7)
	pages := layout.Plan(images, layout.Options{Format: layout.FormatA4, Margin: 10, ImagesPerPage: 4})

	enc := &recordingEncoder{}
	sink := &recordingSink{}
	r := testRenderer(enc, sink)
	r.Decoder = slowDecoder{}
	r.Workers = 7

	if err := r.Render(context.Background(), pages, src, "album", RenderOptions{Quality: 0.8}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var ops []string
	idx := 0
	for _, c := range enc.calls {
		if c.op == "page" {
			ops = append(ops, "page")
			continue
		}
		ops = append(ops, c.name)
		if c.name != images[idx].ID {
			t.Errorf("image %d drawn as %s, want %s", idx, c.name, images[idx].ID)
		}
		idx++
	}
	want := "page id-0 id-1 id-2 id-3 page id-4 id-5 id-6"
	if got := strings.Join(ops, " "); got != want {
		t.Errorf("calls = %q, want %q", got, want)
	}

	if len(sink.saves) != 1 || sink.saves[0] != "album.pdf" {
		t.Errorf("saves = %v, want [album.pdf]", sink.saves)
	}
}

func TestRenderUsesPlannedRects(t *testing.T) {
	images, src := fixture(t, 2)
	pages := layout.Plan(images, layout.Options{Format: layout.FormatLetter, Margin: 5, ImagesPerPage: 2})

	enc := &recordingEncoder{}
	if err := testRenderer(enc, &recordingSink{}).Render(context.Background(), pages, src, "x", RenderOptions{Quality: 1}); err != nil {
		t.Fatal(err)
	}
	var got []layout.Rect
	for _, c := range enc.calls {
		if c.op == "image" {
			got = append(got, c.rect)
		}
	}
	for i, pl := range pages[0].Placements {
		if got[i] != pl.Rect {
			t.Errorf("image %d drawn at %+v, want %+v", i, got[i], pl.Rect)
		}
	}
}

func TestRenderDecodeFailureAborts(t *testing.T) {
	images, src := fixture(t, 5)
	pages := layout.Plan(images, layout.Options{Format: layout.FormatA4, Margin: 10, ImagesPerPage: 1})

	enc := &recordingEncoder{}
	sink := &recordingSink{}
	r := testRenderer(enc, sink)
	r.Decoder = slowDecoder{failName: "img3.png"}

	err := r.Render(context.Background(), pages, src, "album", RenderOptions{Quality: 0.8})
	if !errors.Is(err, faults.ErrDecode) {
		t.Fatalf("Render() error = %v, want decode failure", err)
	}
	var fe *faults.Error
	if !errors.As(err, &fe) || fe.Name != "img3.png" {
		t.Errorf("failure should name img3.png, got %v", err)
	}
	if len(enc.calls) != 0 {
		t.Errorf("encoder used %d times after a decode failure", len(enc.calls))
	}
	if len(sink.saves) != 0 {
		t.Error("nothing should be saved after a decode failure")
	}
}

func TestRenderUndecodableBytes(t *testing.T) {
	pages := layout.Plan([]layout.Image{{ID: "bad", Name: "bad.png", Width: 1, Height: 1}},
		layout.Options{Format: layout.FormatA4, ImagesPerPage: 1})
	src := SourceFunc(func(string) ([]byte, error) { return []byte("garbage"), nil })

	sink := &recordingSink{}
	err := NewRenderer(sink).Render(context.Background(), pages, src, "x", RenderOptions{Quality: 0.5})
	if !errors.Is(err, faults.ErrDecode) {
		t.Fatalf("Render() error = %v, want decode failure", err)
	}
	if len(sink.saves) != 0 {
		t.Error("nothing should be saved")
	}
}

func TestRenderMissingSourceIsDecodeFailure(t *testing.T) {
	pages := layout.Plan([]layout.Image{{ID: "gone", Width: 1, Height: 1}},
		layout.Options{Format: layout.FormatA4, ImagesPerPage: 1})
	src := SourceFunc(func(string) ([]byte, error) { return nil, errors.New("released") })

	err := NewRenderer(&recordingSink{}).Render(context.Background(), pages, src, "x", RenderOptions{Quality: 0.5})
	if !errors.Is(err, faults.ErrDecode) {
		t.Fatalf("Render() error = %v, want decode failure", err)
	}
}

func TestRenderEncodingFailures(t *testing.T) {
	images, src := fixture(t, 3)
	pages := layout.Plan(images, layout.Options{Format: layout.FormatA4, Margin: 10, ImagesPerPage: 2})

	tests := []struct {
		name string
		enc  *recordingEncoder
	}{
		{"placement rejected", &recordingEncoder{failOnPlace: "id-2"}},
		{"serialize fails", &recordingEncoder{failSerialize: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			err := testRenderer(tt.enc, sink).Render(context.Background(), pages, src, "x", RenderOptions{Quality: 0.7})
			if !errors.Is(err, faults.ErrEncoding) {
				t.Fatalf("Render() error = %v, want encoding failure", err)
			}
			if len(sink.saves) != 0 {
				t.Error("nothing should be saved after an encoding failure")
			}
		})
	}
}

func TestRenderSaveFailure(t *testing.T) {
	images, src := fixture(t, 1)
	pages := layout.Plan(images, layout.Options{Format: layout.FormatA4, ImagesPerPage: 1})

	sink := &recordingSink{err: errors.New("permission denied")}
	err := testRenderer(&recordingEncoder{}, sink).Render(context.Background(), pages, src, "x", RenderOptions{Quality: 0.7})
	if !errors.Is(err, faults.ErrSave) {
		t.Fatalf("Render() error = %v, want save failure", err)
	}
}

func TestRenderNoPages(t *testing.T) {
	err := NewRenderer(&recordingSink{}).Render(context.Background(), nil, SourceFunc(nil), "x", RenderOptions{})
	if !errors.Is(err, faults.ErrEmptyInput) {
		t.Fatalf("Render() error = %v, want empty input", err)
	}
}

func TestRenderCanceled(t *testing.T) {
	images, src := fixture(t, 3)
	pages := layout.Plan(images, layout.Options{Format: layout.FormatA4, ImagesPerPage: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordingSink{}
	err := NewRenderer(sink).Render(ctx, pages, src, "x", RenderOptions{Quality: 0.7})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Render() error = %v, want context.Canceled", err)
	}
	if len(sink.saves) != 0 {
		t.Error("nothing should be saved after cancellation")
	}
}

func TestRenderProducesPDF(t *testing.T) {
	images, src := fixture(t, 5)
	pages := layout.Plan(images, layout.Options{
		Format: layout.FormatA4, Orientation: layout.Landscape, Margin: 10, ImagesPerPage: 2,
	})

	var buf bytes.Buffer
	sink := &WriterSink{W: &buf}
	opts := RenderOptions{Quality: 0.6, Metadata: Metadata{Title: "Holiday", Producer: "img2pdf"}}
	if err := NewRenderer(sink).Render(context.Background(), pages, src, "holiday", opts); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "%PDF-") {
		t.Fatalf("output does not start with a PDF header: %q", out[:min(len(out), 16)])
	}
	if sink.Name != "holiday.pdf" {
		t.Errorf("saved as %q", sink.Name)
	}
	if got := countPages(out); got != 3 {
		t.Errorf("document has %d pages, want 3", got)
	}
}

func countPages(pdf string) int {
	return strings.Count(pdf, "/Type /Page") - strings.Count(pdf, "/Type /Pages")
}
