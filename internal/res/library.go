package res

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gompdf/img2pdf/internal/faults"
	"github.com/gompdf/img2pdf/internal/layout"
)

// ErrReleased is returned when reading through a released handle
var ErrReleased = errors.New("resource handle released")

// Handle is a scoped reference to an asset's bytes. It stays readable until
// Release is called; releasing twice is harmless.
type Handle struct {
	mu        sync.RWMutex
	data      []byte
	released  bool
	onRelease func()
}

func newHandle(data []byte, onRelease func()) *Handle {
	return &Handle{data: data, onRelease: onRelease}
}

// Bytes returns the handle's data. Callers must not modify it.
func (h *Handle) Bytes() ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.released {
		return nil, ErrReleased
	}
	return h.data, nil
}

// Release drops the data and runs the release hook once
func (h *Handle) Release() {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return
	}
	h.released = true
	h.data = nil
	hook := h.onRelease
	h.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Released reports whether Release has been called
func (h *Handle) Released() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.released
}

// Asset is one user-supplied image
type Asset struct {
	ID       string
	Name     string
	Source   string
	MimeType string
	Width    int
	Height   int
	Size     int64

	handle *Handle
}

// Bytes returns the encoded image bytes
func (a *Asset) Bytes() ([]byte, error) {
	return a.handle.Bytes()
}

// Released reports whether the asset's bytes have been released
func (a *Asset) Released() bool {
	return a.handle.Released()
}

// LayoutImage returns what the layout planner needs to know about the asset
func (a *Asset) LayoutImage() layout.Image {
	return layout.Image{ID: a.ID, Name: a.Name, Width: a.Width, Height: a.Height}
}

// NewAsset probes data and wraps it in an asset with a fresh identifier.
// The asset is not attached to any library.
func NewAsset(name string, data []byte) (*Asset, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, faults.Decode(name, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, faults.Decode(name, fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height))
	}

	return &Asset{
		ID:       uuid.NewString(),
		Name:     name,
		Source:   name,
		MimeType: "image/" + format,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Size:     int64(len(data)),
		handle:   newHandle(data, nil),
	}, nil
}

// Library is the ordered set of images chosen for a document. Every asset
// holds a Handle on its bytes that is released when the asset is removed,
// the library is cleared or the library is closed. A Library is safe for
// concurrent use.
type Library struct {
	mu     sync.RWMutex
	loader *Loader
	assets []*Asset
	logger *log.Logger
}

// NewLibrary creates an empty library that resolves references with loader
func NewLibrary(loader *Loader) *Library {
	if loader == nil {
		loader = NewLoader("")
	}
	return &Library{loader: loader, logger: log.Default()}
}

// SetLogger replaces the library's logger
func (lib *Library) SetLogger(l *log.Logger) {
	if l != nil {
		lib.logger = l
	}
}

// Add loads the referenced image and appends it to the library
func (lib *Library) Add(ctx context.Context, ref string) (*Asset, error) {
	rsrc, err := lib.loader.LoadImage(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", ref, err)
	}

	a, err := NewAsset(rsrc.Name(), rsrc.Data)
	if err != nil {
		lib.loader.Forget(ref)
		return nil, err
	}
	a.Source = ref
	if rsrc.MimeType != "" {
		a.MimeType = rsrc.MimeType
	}
	a.handle.onRelease = func() { lib.loader.Forget(ref) }

	lib.append(a)
	lib.logger.Debug("Added image", "name", a.Name, "id", a.ID, "width", a.Width, "height", a.Height)
	return a, nil
}

// AddBytes appends an image supplied directly as bytes
func (lib *Library) AddBytes(name string, data []byte) (*Asset, error) {
	a, err := NewAsset(name, data)
	if err != nil {
		return nil, err
	}
	lib.append(a)
	lib.logger.Debug("Added image", "name", a.Name, "id", a.ID, "width", a.Width, "height", a.Height)
	return a, nil
}

// AddDir appends every image in dir in natural name order
func (lib *Library) AddDir(ctx context.Context, dir string) ([]*Asset, error) {
	paths, err := ListImages(dir)
	if err != nil {
		return nil, err
	}
	return lib.addAll(ctx, paths)
}

// AddGallery appends every image referenced by <img> elements of the HTML
// page at ref, in document order. Relative sources resolve against the page.
func (lib *Library) AddGallery(ctx context.Context, ref string) ([]*Asset, error) {
	page, err := lib.loader.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load gallery %s: %w", ref, err)
	}
	defer lib.loader.Forget(ref)

	srcs, err := ScanGallery(bytes.NewReader(page.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse gallery %s: %w", ref, err)
	}

	refs := make([]string, 0, len(srcs))
	for _, src := range srcs {
		resolved, err := resolveAgainst(page.URL, src)
		if err != nil {
			return nil, fmt.Errorf("bad image reference %q: %w", src, err)
		}
		refs = append(refs, resolved)
	}
	return lib.addAll(ctx, refs)
}

// addAll adds refs in order; on failure the assets added so far are removed
func (lib *Library) addAll(ctx context.Context, refs []string) ([]*Asset, error) {
	added := make([]*Asset, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			lib.removeAll(added)
			return nil, err
		}
		a, err := lib.Add(ctx, ref)
		if err != nil {
			lib.removeAll(added)
			return nil, err
		}
		added = append(added, a)
	}
	return added, nil
}

func (lib *Library) removeAll(assets []*Asset) {
	for _, a := range assets {
		lib.Remove(a.ID)
	}
}

func (lib *Library) append(a *Asset) {
	lib.mu.Lock()
	lib.assets = append(lib.assets, a)
	lib.mu.Unlock()
}

// Remove removes the asset with the given id and releases its bytes
func (lib *Library) Remove(id string) bool {
	lib.mu.Lock()
	var removed *Asset
	for i, a := range lib.assets {
		if a.ID == id {
			removed = a
			lib.assets = append(lib.assets[:i], lib.assets[i+1:]...)
			break
		}
	}
	lib.mu.Unlock()

	if removed == nil {
		return false
	}
	removed.handle.Release()
	lib.logger.Debug("Removed image", "name", removed.Name, "id", id)
	return true
}

// Move moves the asset at index from to index to. Both indexes are clamped
// to the library bounds.
func (lib *Library) Move(from, to int) {
	lib.mu.Lock()
	defer lib.mu.Unlock()

	n := len(lib.assets)
	if n == 0 {
		return
	}
	from = clamp(from, 0, n-1)
	to = clamp(to, 0, n-1)
	if from == to {
		return
	}

	a := lib.assets[from]
	lib.assets = append(lib.assets[:from], lib.assets[from+1:]...)
	lib.assets = append(lib.assets[:to], append([]*Asset{a}, lib.assets[to:]...)...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Get returns the asset with the given id
func (lib *Library) Get(id string) (*Asset, bool) {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	for _, a := range lib.assets {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// ImageBytes returns the encoded bytes of the asset with the given id
func (lib *Library) ImageBytes(id string) ([]byte, error) {
	a, ok := lib.Get(id)
	if !ok {
		return nil, fmt.Errorf("unknown image %s", id)
	}
	return a.Bytes()
}

// Assets returns a snapshot of the library in display order
func (lib *Library) Assets() []*Asset {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	out := make([]*Asset, len(lib.assets))
	copy(out, lib.assets)
	return out
}

// Len returns the number of assets
func (lib *Library) Len() int {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	return len(lib.assets)
}

// Clear removes every asset and releases its bytes
func (lib *Library) Clear() {
	lib.mu.Lock()
	assets := lib.assets
	lib.assets = nil
	lib.mu.Unlock()

	for _, a := range assets {
		a.handle.Release()
	}
	if len(assets) > 0 {
		lib.logger.Debug("Cleared images", "count", len(assets))
	}
}

// Close releases every asset. It always returns nil.
func (lib *Library) Close() error {
	lib.Clear()
	return nil
}
