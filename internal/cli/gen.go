package cli

import (
	"fmt"

	"github.com/annel0/shades/internal/generator"
	"github.com/annel0/shades/internal/shades"
	"github.com/spf13/cobra"
)

// NewGenCommand создаёт команду gen
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		seed      int64
		count     int
		scattered float64
		resolve   bool
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Сгенерировать поля по сиду",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := rootOpts.cfg.Engine.Dims()
			d.MaxTier = rootOpts.maxTier()

			bg, err := generator.New(seed, d)
			if err != nil {
				return err
			}

			boards := make([]string, 0, count)
			for i := 0; i < count; i++ {
				var g *shades.Grid
				if scattered > 0 {
					g, err = bg.Scattered(scattered)
				} else {
					g, err = bg.Board()
				}
				if err != nil {
					return err
				}
				if resolve {
					res, err := shades.ResolveStable(g, rootOpts.cfg.Engine.Options())
					if err != nil {
						return err
					}
					g = res.Grid
				}
				boards = append(boards, g.String())
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), boards)
			}
			for i, b := range boards {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "# seed=%d board=%d\n%s", seed, i, b)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 1, "сид генератора")
	cmd.Flags().IntVar(&count, "count", 1, "количество полей")
	cmd.Flags().Float64Var(&scattered, "scattered", 0, "плотность случайных плиток (0 — столбцы по шуму)")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "стабилизировать сгенерированные поля")
	return cmd
}
