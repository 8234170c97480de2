// Package estimate approximates the size of a generated document before it is
// generated. The figure is for user feedback only.
package estimate

import (
	"fmt"
	"math"
)

const (
	kib = 1024
	mib = 1024 * 1024

	// PerImageOverhead approximates the document structure added for each image
	PerImageOverhead = 1 * kib
)

// Bytes returns the estimated output size in bytes for images of the given
// byte sizes re-encoded at quality. An empty list estimates zero.
func Bytes(sizes []int64, quality float64) float64 {
	if len(sizes) == 0 {
		return 0
	}

	var sum float64
	for _, s := range sizes {
		sum += float64(s)
	}
	count := float64(len(sizes))
	avg := sum / count
	return avg*count*quality + count*PerImageOverhead
}

// Format renders a byte count as whole kibibytes below one mebibyte and as
// mebibytes with one decimal otherwise.
func Format(bytes float64) string {
	if bytes < mib {
		return fmt.Sprintf("%d KB", int64(math.Floor(bytes/kib+0.5)))
	}
	return fmt.Sprintf("%.1f MB", bytes/mib)
}

// Estimate returns the human-readable size estimate for images of the given
// byte sizes at quality
func Estimate(sizes []int64, quality float64) string {
	return Format(Bytes(sizes, quality))
}
