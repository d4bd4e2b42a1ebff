// Package cli реализует команды shadesctl.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/annel0/shades/internal/config"
	"github.com/annel0/shades/internal/shades"
	"github.com/spf13/cobra"
)

// RootOptions — общие флаги всех команд
type RootOptions struct {
	ConfigPath string
	Format     string // "text" | "json"
	MaxTier    int    // 0 — из конфигурации

	cfg *config.Config
}

// ValidFormats — допустимые форматы вывода
var ValidFormats = []string{"text", "json"}

// NewRootCommand создаёт корневую команду shadesctl
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "shadesctl",
		Short: "Shades: стабилизация и проверка полей, генерация, симуляция",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := config.LoadOrDefault(opts.ConfigPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML конфигурация (или SHADES_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "формат вывода (json|text)")
	cmd.PersistentFlags().IntVar(&opts.MaxTier, "max-tier", 0, "максимальный уровень плитки (0 — из конфигурации)")

	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewGenCommand(opts))
	cmd.AddCommand(NewSimCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))
	cmd.AddCommand(NewTailCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// maxTier возвращает уровень из флага или конфигурации
func (o *RootOptions) maxTier() shades.Tier {
	if o.MaxTier > 0 {
		return shades.Tier(o.MaxTier)
	}
	return o.cfg.Engine.Dims().MaxTier
}

// readBoard читает поле из файла или stdin ("-" или без аргумента)
func (o *RootOptions) readBoard(cmd *cobra.Command, args []string) (*shades.Grid, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}
	return shades.ParseGridMax(string(data), o.maxTier())
}

// writeJSON печатает v с отступами
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
