package res

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ListImages returns the image files directly inside dir, ordered the way a
// file browser shows them: case-insensitive with numeric runs compared by
// value, so "img2.png" sorts before "img10.png". Subdirectories and
// non-image files are skipped.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsImagePath(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}

	SortNatural(names)

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// SortNatural sorts names in place by numeric-aware, case-insensitive collation
func SortNatural(names []string) {
	c := collate.New(language.Und, collate.Numeric, collate.IgnoreCase)
	c.SortStrings(names)
}
