package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/shades/internal/eventbus"
	"github.com/annel0/shades/internal/session"
	"github.com/annel0/shades/internal/snapshot"
	"github.com/spf13/cobra"
)

// NewTailCommand создаёт команду tail: печатает события сессий из JetStream
func NewTailCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		url    string
		stream string
		types  []string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Следить за событиями сессий в NATS JetStream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = rootOpts.cfg.EventBus.URL
			}
			if url == "" {
				return fmt.Errorf("nats url is required (--url or eventbus.url)")
			}

			bus, err := eventbus.NewJetStreamBus(url, stream, time.Duration(rootOpts.cfg.EventBus.Retention)*time.Hour)
			if err != nil {
				return err
			}
			defer bus.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			events := make(chan *eventbus.Envelope, 64)
			sub, err := bus.Subscribe(ctx, eventbus.Filter{Types: types}, func(ctx context.Context, ev *eventbus.Envelope) {
				select {
				case events <- ev:
				case <-ctx.Done():
				}
			})
			if err != nil {
				return err
			}
			defer sub.Unsubscribe()

			for n := 0; limit == 0 || n < limit; n++ {
				select {
				case <-ctx.Done():
					return nil
				case ev := <-events:
					if err := printEvent(cmd, rootOpts, ev); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "адрес NATS (по умолчанию eventbus.url)")
	cmd.Flags().StringVar(&stream, "stream", "SHADES", "имя стрима JetStream")
	cmd.Flags().StringSliceVar(&types, "types", nil, "типы событий (через запятую)")
	cmd.Flags().IntVar(&limit, "limit", 0, "выйти после N событий (0 — без лимита)")
	return cmd
}

// printEvent печатает событие; для shades.resolved добавляет поле
func printEvent(cmd *cobra.Command, rootOpts *RootOptions, ev *eventbus.Envelope) error {
	if rootOpts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), ev)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %-24s session=%s\n", ev.Timestamp.Format(time.RFC3339), ev.EventType, ev.CorrelationID)
	if ev.EventType != eventbus.TypeResolved {
		return nil
	}

	var payload session.ResolvedEvent
	if err := ev.Decode(&payload); err != nil {
		return fmt.Errorf("decode %s: %w", ev.ID, err)
	}
	fmt.Fprintf(w, "  %v tier=%d merges=%d clears=%d rounds=%d\n",
		payload.Placement.Pos, payload.Placement.Tier, payload.Merges, payload.Clears, payload.Rounds)
	if g, err := snapshot.Decode(payload.Snapshot); err == nil {
		fmt.Fprint(w, g)
	}
	return nil
}
