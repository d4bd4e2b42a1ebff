package cli

import (
	"errors"
	"fmt"

	"github.com/annel0/shades/internal/shades"
	"github.com/spf13/cobra"
)

// ErrUnstable возвращается командой check, если поле не стабильно
var ErrUnstable = errors.New("board is not stable")

// ResolveOutput — результат команды resolve
type ResolveOutput struct {
	Board  string `json:"board"`
	Merges int    `json:"merges"`
	Clears int    `json:"clears"`
	Rounds int    `json:"rounds"`
}

// CheckOutput — результат команды check
type CheckOutput struct {
	Stable    bool              `json:"stable"`
	Violation *shades.Violation `json:"violation,omitempty"`
}

// NewResolveCommand создаёт команду resolve
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "resolve [file|-]",
		Short: "Стабилизировать поле и напечатать результат",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := rootOpts.readBoard(cmd, args)
			if err != nil {
				return err
			}

			opts := rootOpts.cfg.Engine.Options()
			opts.StrictInvariants = strict
			res, err := shades.ResolveStable(g, opts)
			if err != nil {
				return err
			}

			out := ResolveOutput{Board: res.Grid.String(), Merges: res.Merges, Clears: res.Clears, Rounds: res.Rounds}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			fmt.Fprint(cmd.OutOrStdout(), out.Board)
			fmt.Fprintf(cmd.OutOrStdout(), "merges=%d clears=%d rounds=%d\n", out.Merges, out.Clears, out.Rounds)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", true, "проверять инварианты после стабилизации")
	return cmd
}

// NewCheckCommand создаёт команду check
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file|-]",
		Short: "Проверить, что поле стабильно",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := rootOpts.readBoard(cmd, args)
			if err != nil {
				return err
			}

			v := shades.FirstInvariantViolation(g)
			out := CheckOutput{Stable: v == nil, Violation: v}
			if rootOpts.Format == "json" {
				if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
					return err
				}
			} else if v == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "stable")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "unstable: %s\n", v)
			}

			if v != nil {
				return ErrUnstable
			}
			return nil
		},
	}
}
