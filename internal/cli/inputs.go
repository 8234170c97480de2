package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gompdf/img2pdf/pkg/api"
)

// loadInputs adds every argument to conv in order, followed by the images of
// each gallery page. Directories contribute their images in natural order.
func loadInputs(ctx context.Context, conv *api.Converter, args, galleries []string) error {
	logger := loggerFromContext(ctx)

	for _, arg := range args {
		if isDirectory(arg) {
			infos, err := conv.AddDirectory(ctx, arg)
			if err != nil {
				return err
			}
			logger.Debug("Added directory", "path", arg, "images", len(infos))
			continue
		}
		if _, err := conv.AddImage(ctx, arg); err != nil {
			return err
		}
	}

	for _, page := range galleries {
		infos, err := conv.AddGallery(ctx, page)
		if err != nil {
			return err
		}
		logger.Debug("Added gallery", "page", page, "images", len(infos))
	}

	if conv.Len() == 0 {
		return fmt.Errorf("%w: pass image files, directories, URLs or --html pages", api.ErrEmptyInput)
	}
	return nil
}

func isDirectory(arg string) bool {
	if strings.Contains(arg, "://") || strings.HasPrefix(arg, "data:") {
		return false
	}
	fi, err := os.Stat(arg)
	return err == nil && fi.IsDir()
}

// newConverter creates a converter logging through the context's logger
func newConverter(ctx context.Context, opts api.Options) *api.Converter {
	conv := api.NewWithOptions(opts)
	conv.SetLogger(loggerFromContext(ctx))
	return conv
}
