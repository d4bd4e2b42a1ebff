package cli

import (
	"fmt"

	"github.com/annel0/shades/internal/logging"
	"github.com/annel0/shades/internal/snapshot"
	"github.com/spf13/cobra"
)

// NewSnapshotCommand создаёт команду snapshot
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot [file|-]",
		Short: "Показать сжатый снимок поля (как в событиях шины)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := rootOpts.readBoard(cmd, args)
			if err != nil {
				return err
			}
			data, err := snapshot.Encode(g)
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"size": len(data), "snapshot": data})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "size=%d bytes\n%s", len(data), logging.HexDump(data))
			return nil
		},
	}
}
