package res

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// ResourceType represents the type of resource
type ResourceType int

const (
	// ResourceTypeUnknown is an unknown resource type
	ResourceTypeUnknown ResourceType = iota
	// ResourceTypeImage is a raster image
	ResourceTypeImage
	// ResourceTypeHTML is an HTML gallery page
	ResourceTypeHTML
	// ResourceTypeOther is any other resource
	ResourceTypeOther
)

// Resource represents a loaded resource
type Resource struct {
	URL      string
	Type     ResourceType
	Data     []byte
	MimeType string
}

// Name returns the last path element of the resource URL, or the MIME type
// for data URLs
func (r *Resource) Name() string {
	if strings.HasPrefix(r.URL, "data:") {
		return r.MimeType
	}
	if u, err := url.Parse(r.URL); err == nil && u.Scheme != "" && u.Path != "" {
		return filepath.Base(u.Path)
	}
	return filepath.Base(r.URL)
}

// Loader resolves image references: local paths, search paths, http(s) URLs
// and data URLs. Loaded resources are cached until released.
type Loader struct {
	// Base URL or file path for resolving relative references
	BaseURL string

	cache     map[string]*Resource
	cacheLock sync.RWMutex

	searchPaths []string

	client *http.Client

	// MaxRemoteBytes caps the body of one remote resource
	MaxRemoteBytes int64
}

// DefaultMaxRemoteBytes is the body cap of a new loader
const DefaultMaxRemoteBytes = 64 << 20

// NewLoader creates a new resource loader
func NewLoader(baseURL string) *Loader {
	return &Loader{
		BaseURL:     baseURL,
		cache:       make(map[string]*Resource),
		searchPaths: []string{},
		client:      &http.Client{Timeout: 30 * time.Second},

		MaxRemoteBytes: DefaultMaxRemoteBytes,
	}
}

// SetHTTPClient replaces the client used for remote resources
func (l *Loader) SetHTTPClient(c *http.Client) {
	l.client = c
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	l.cacheLock.Lock()
	defer l.cacheLock.Unlock()
	if slices.Contains(l.searchPaths, path) {
		return
	}
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a resource from a URL or file path
func (l *Loader) Load(ctx context.Context, ref string) (*Resource, error) {
	l.cacheLock.RLock()
	if res, ok := l.cache[ref]; ok {
		l.cacheLock.RUnlock()
		return res, nil
	}
	l.cacheLock.RUnlock()

	var (
		res *Resource
		err error
	)
	if strings.HasPrefix(ref, "data:") {
		res, err = parseDataURL(ref)
	} else {
		var resolved string
		resolved, err = l.resolveURL(ref)
		if err != nil {
			return nil, err
		}
		if isRemote(resolved) {
			res, err = l.loadRemote(ctx, resolved)
		} else {
			res, err = l.loadLocal(resolved)
		}
	}
	if err != nil {
		return nil, err
	}

	l.cacheLock.Lock()
	l.cache[ref] = res
	l.cacheLock.Unlock()

	return res, nil
}

// LoadImage loads a resource and checks that it is an image
func (l *Loader) LoadImage(ctx context.Context, ref string) (*Resource, error) {
	res, err := l.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if res.Type != ResourceTypeImage {
		l.Forget(ref)
		return nil, fmt.Errorf("resource is not an image: %s", ref)
	}
	return res, nil
}

// Forget drops a cached resource
func (l *Loader) Forget(ref string) {
	l.cacheLock.Lock()
	delete(l.cache, ref)
	l.cacheLock.Unlock()
}

// Cached reports how many resources are cached
func (l *Loader) Cached() int {
	l.cacheLock.RLock()
	defer l.cacheLock.RUnlock()
	return len(l.cache)
}

// parseDataURL parses a data URL (RFC 2397) and returns a Resource.
// Examples:
//
//	data:image/png;base64,<base64>
//	data:text/plain,Hello%20World
func parseDataURL(u string) (*Resource, error) {
	s := strings.TrimPrefix(u, "data:")
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid data URL")
	}
	meta, dataPart := parts[0], parts[1]

	mime := "text/plain"
	isBase64 := false
	if meta != "" {
		comps := strings.Split(meta, ";")
		if comps[0] != "" {
			mime = strings.ToLower(comps[0])
		}
		for _, c := range comps[1:] {
			if strings.EqualFold(strings.TrimSpace(c), "base64") {
				isBase64 = true
			}
		}
	}

	var data []byte
	if isBase64 {
		var err error
		data, err = base64.StdEncoding.DecodeString(dataPart)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
	} else if d, err := url.QueryUnescape(dataPart); err == nil {
		data = []byte(d)
	} else {
		data = []byte(dataPart)
	}

	return &Resource{
		URL:      u,
		Data:     data,
		MimeType: mime,
		Type:     determineResourceType(mime, ""),
	}, nil
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// resolveURL resolves a reference relative to the base URL
func (l *Loader) resolveURL(ref string) (string, error) {
	return resolveAgainst(l.BaseURL, ref)
}

// resolveAgainst resolves ref relative to base, which is a file path or an
// http(s) URL
func resolveAgainst(base, ref string) (string, error) {
	if isRemote(ref) || strings.HasPrefix(ref, "data:") || filepath.IsAbs(ref) {
		return ref, nil
	}

	if !isRemote(base) {
		if base == "" {
			return ref, nil
		}
		return filepath.Join(filepath.Dir(base), ref), nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	relURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(relURL).String(), nil
}

// loadRemote loads a resource from a remote URL
func (l *Loader) loadRemote(ctx context.Context, urlStr string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	limit := l.MaxRemoteBytes
	if limit <= 0 {
		limit = DefaultMaxRemoteBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: body exceeds %d bytes", urlStr, limit)
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.ToLower(strings.TrimSpace(mime))
	if mime == "" || mime == "application/octet-stream" {
		mime = determineMimeType(urlStr)
	}

	return &Resource{
		URL:      urlStr,
		Data:     data,
		MimeType: mime,
		Type:     determineResourceType(mime, urlStr),
	}, nil
}

// loadLocal loads a resource from a local file, falling back to the search paths
func (l *Loader) loadLocal(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l.loadFromSearchPaths(path)
		}
		return nil, err
	}
	return newLocalResource(path, data), nil
}

// loadFromSearchPaths tries to load a resource from the search paths
func (l *Loader) loadFromSearchPaths(filename string) (*Resource, error) {
	baseFilename := filepath.Base(filename)

	l.cacheLock.RLock()
	paths := slices.Clone(l.searchPaths)
	l.cacheLock.RUnlock()

	for _, searchPath := range paths {
		path := filepath.Join(searchPath, baseFilename)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return newLocalResource(path, data), nil
	}

	return nil, fmt.Errorf("resource not found: %s", filename)
}

func newLocalResource(path string, data []byte) *Resource {
	mime := determineMimeType(path)
	return &Resource{
		URL:      path,
		Data:     data,
		MimeType: mime,
		Type:     determineResourceType(mime, path),
	}
}

// determineMimeType determines the MIME type of a file from its extension
func determineMimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	case ".html", ".htm":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}

// determineResourceType determines the type of a resource
func determineResourceType(mimeType, path string) ResourceType {
	if strings.HasPrefix(mimeType, "image/") {
		return ResourceTypeImage
	}
	if mimeType == "text/html" {
		return ResourceTypeHTML
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".tiff", ".tif", ".bmp":
		return ResourceTypeImage
	case ".html", ".htm":
		return ResourceTypeHTML
	}

	return ResourceTypeOther
}

// IsImagePath reports whether path has a supported image extension
func IsImagePath(path string) bool {
	return determineResourceType(determineMimeType(path), path) == ResourceTypeImage
}
