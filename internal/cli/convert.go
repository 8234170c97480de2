package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gompdf/img2pdf/pkg/api"
)

func newConvertCmd() *cobra.Command {
	var (
		lf     layoutFlags
		df     docFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert [images...]",
		Short: "Assemble images into a PDF",
		Long: `Convert places the images, in the order given, onto pages of the chosen
format and writes the document. Without --output the document is written to
images-to-pdf.pdf in the current directory.`,
		Example: `  img2pdf convert scans/ -n 4 -o scans.pdf
  img2pdf convert cover.png https://example.com/photo.jpg --format letter
  img2pdf convert --html gallery.html --orientation landscape`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			opts, err := resolveOptions(cmd, &lf, &df)
			if err != nil {
				return err
			}
			if output == "" {
				output = opts.Filename + ".pdf"
			}
			if ext := filepath.Ext(output); strings.EqualFold(ext, ".pdf") {
				output = strings.TrimSuffix(output, ext)
			}
			output += ".pdf"

			conv := newConverter(ctx, opts)
			defer conv.Close()

			prog := newProgress(logger)
			if err := loadInputs(ctx, conv, args, lf.galleries); err != nil {
				return err
			}
			prog.done("Loaded images")

			logger.Debug("Layout", "options", opts.String(), "estimate", conv.Estimate())
			if err := conv.ConvertToFile(ctx, output); err != nil {
				printError(cmd.ErrOrStderr(), "Generation failed")
				return err
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "Wrote %d images on %d pages", conv.Len(), conv.PageCount())
			if abs, err := filepath.Abs(output); err == nil {
				output = abs
			}
			printFile(out, output)
			return nil
		},
	}

	lf.register(cmd.Flags())
	df.register(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default "+api.DefaultFilename+".pdf)")
	return cmd
}
