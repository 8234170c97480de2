package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/gompdf/img2pdf/pkg/api"
)

func newEstimateCmd() *cobra.Command {
	var (
		lf   layoutFlags
		list bool
	)

	cmd := &cobra.Command{
		Use:   "estimate [images...]",
		Short: "Print the page count and approximate document size",
		Long: `Estimate loads the images and reports how many pages they fill and roughly
how large the document will be at the chosen quality. Nothing is rendered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			opts, err := resolveOptions(cmd, &lf, nil)
			if err != nil {
				return err
			}
			conv := newConverter(ctx, opts)
			defer conv.Close()

			if err := loadInputs(ctx, conv, args, lf.galleries); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTitle(out, "Estimate")
			printNumber(out, "Images", conv.Len())
			printNumber(out, "Pages", conv.PageCount())
			printKeyValue(out, "Layout", opts.String())
			printKeyValue(out, "Size", conv.Estimate())

			if list {
				fmt.Fprintln(out)
				fmt.Fprintln(out, imageTable(conv.Images()))
			}
			return nil
		},
	}

	lf.register(cmd.Flags())
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list every image")
	return cmd
}

// imageTable renders the image list in page-fill order
func imageTable(images []api.ImageInfo) string {
	rows := make([][]string, len(images))
	for i, im := range images {
		rows[i] = []string{
			fmt.Sprint(i + 1),
			im.Name,
			fmt.Sprintf("%dx%d", im.Width, im.Height),
			im.MimeType,
			formatBytes(im.Size),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleDim).
		Headers("#", "Name", "Pixels", "Type", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 { // header
				return styleHeader
			}
			if col == 0 {
				return styleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
