package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gompdf/img2pdf/internal/layout"
)

// planDoc is the YAML form of a placement plan
type planDoc struct {
	Format        string    `yaml:"format"`
	Orientation   string    `yaml:"orientation"`
	Margin        float64   `yaml:"margin"`
	ImagesPerPage int       `yaml:"images_per_page"`
	Pages         []pageDoc `yaml:"pages"`
}

type pageDoc struct {
	Number     int                `yaml:"number"`
	Width      float64            `yaml:"width"`
	Height     float64            `yaml:"height"`
	Grid       string             `yaml:"grid"`
	Placements []layout.Placement `yaml:"placements"`
}

func newPlanCmd() *cobra.Command {
	var lf layoutFlags

	cmd := &cobra.Command{
		Use:   "plan [images...]",
		Short: "Print where every image will be placed",
		Long: `Plan computes the page layout without rendering and prints it as YAML.
Rectangles are in millimeters from the top-left corner of the page.`,
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
			pages, err := conv.Plan()
			if err != nil {
				return err
			}

			doc := planDoc{
				Format:        string(opts.Format),
				Orientation:   string(opts.PageOrientation),
				Margin:        opts.Margin,
				ImagesPerPage: opts.ImagesPerPage,
			}
			for _, p := range pages {
				doc.Pages = append(doc.Pages, pageDoc{
					Number:     p.Index + 1,
					Width:      p.Geometry.PageWidth,
					Height:     p.Geometry.PageHeight,
					Grid:       p.Grid.String(),
					Placements: p.Placements,
				})
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	lf.register(cmd.Flags())
	return cmd
}
