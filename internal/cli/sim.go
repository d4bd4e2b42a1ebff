package cli

import (
	"fmt"

	"github.com/annel0/shades/internal/sim"
	"github.com/spf13/cobra"
)

// NewSimCommand создаёт команду sim
func NewSimCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		games    int
		workers  int
		seed     int64
		maxDrops int
	)

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Сыграть много партий случайными ходами со строгой проверкой",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := rootOpts.cfg.Engine.Dims()
			d.MaxTier = rootOpts.maxTier()

			report, err := sim.Run(cmd.Context(), sim.Config{
				Games:        games,
				Workers:      workers,
				Seed:         seed,
				MaxDrops:     maxDrops,
				Dims:         d,
				SpawnMaxTier: rootOpts.cfg.Engine.SpawnTier(),
			})
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "games=%d elapsed=%s\n", len(report.Games), report.Elapsed)
			for _, row := range []struct {
				name string
				s    sim.Summary
			}{{"drops", report.Drops}, {"merges", report.Merges}, {"clears", report.Clears}} {
				fmt.Fprintf(w, "%-7s mean=%.2f stddev=%.2f min=%.0f max=%.0f\n", row.name, row.s.Mean, row.s.StdDev, row.s.Min, row.s.Max)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&games, "games", 100, "количество партий")
	cmd.Flags().IntVar(&workers, "workers", 4, "параллельные партии")
	cmd.Flags().Int64Var(&seed, "seed", 1, "сид первой партии")
	cmd.Flags().IntVar(&maxDrops, "max-drops", 0, "лимит ходов на партию (0 — до конца)")
	return cmd
}
