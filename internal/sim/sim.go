// Package sim прогоняет много партий со случайными ходами и строгой
// проверкой инвариантов. Используется для нагрузочной проверки движка.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/annel0/shades/internal/generator"
	"github.com/annel0/shades/internal/logging"
	"github.com/annel0/shades/internal/session"
	"github.com/annel0/shades/internal/shades"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Config задаёт прогон
type Config struct {
	Games        int
	Workers      int
	Seed         int64
	MaxDrops     int // 0 — до конца партии
	Dims         shades.Dims
	SpawnMaxTier shades.Tier
	Logger       *logging.Logger
}

// GameStats — итог одной партии
type GameStats struct {
	Game      int   `json:"game"`
	Seed      int64 `json:"seed"`
	Drops     int   `json:"drops"`
	Merges    int   `json:"merges"`
	Clears    int   `json:"clears"`
	BestChain int   `json:"best_chain"`
	GameOver  bool  `json:"game_over"`
}

// Summary — описательная статистика по партиям
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Report — результат прогона
type Report struct {
	Games   []GameStats   `json:"games"`
	Drops   Summary       `json:"drops"`
	Merges  Summary       `json:"merges"`
	Clears  Summary       `json:"clears"`
	Elapsed time.Duration `json:"elapsed"`
}

// Run играет cfg.Games партий параллельно. Первая внутренняя ошибка
// движка останавливает прогон.
func Run(ctx context.Context, cfg Config) (Report, error) {
	if cfg.Games < 1 {
		return Report{}, fmt.Errorf("sim: games must be positive, got %d", cfg.Games)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if err := cfg.Dims.Validate(); err != nil {
		return Report{}, err
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewConsoleLogger("sim", io.Discard, logging.ERROR)
	}

	start := time.Now()
	games := make([]GameStats, cfg.Games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Games; i++ {
		i := i
		g.Go(func() error {
			stats, err := playGame(gctx, cfg, i)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i, stats.Seed, err)
			}
			games[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{
		Games:   games,
		Drops:   summarize(games, func(s GameStats) int { return s.Drops }),
		Merges:  summarize(games, func(s GameStats) int { return s.Merges }),
		Clears:  summarize(games, func(s GameStats) int { return s.Clears }),
		Elapsed: time.Since(start),
	}
	cfg.Logger.Info("🎲 Симуляция: %d партий за %s, ходов в среднем %.1f", cfg.Games, report.Elapsed, report.Drops.Mean)
	return report, nil
}

func playGame(ctx context.Context, cfg Config, game int) (GameStats, error) {
	seed := cfg.Seed + int64(game)
	stats := GameStats{Game: game, Seed: seed}

	s, err := session.New(ctx, session.Config{
		Dims:         cfg.Dims,
		Options:      shades.Options{StrictInvariants: true},
		SpawnMaxTier: cfg.SpawnMaxTier,
		Seed:         seed,
	}, session.Deps{Logger: cfg.Logger})
	if err != nil {
		return stats, err
	}

	// Колонки выбирает отдельный генератор, чтобы не сдвигать очередь плиток
	picker, err := generator.New(^seed, cfg.Dims)
	if err != nil {
		return stats, err
	}

	for cfg.MaxDrops == 0 || stats.Drops < cfg.MaxDrops {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		out, err := dropAnywhere(ctx, s, picker.Column(), cfg.Dims.Cols)
		if errors.Is(err, session.ErrGameOver) {
			stats.GameOver = true
			break
		}
		if err != nil {
			return stats, err
		}

		st := out.State.Stats
		stats.Drops, stats.Merges, stats.Clears, stats.BestChain = st.Drops, st.Merges, st.Clears, st.BestChain
		if out.State.GameOver {
			stats.GameOver = true
			break
		}
	}
	return stats, nil
}

// dropAnywhere бросает плитку в column или в следующую открытую колонку
func dropAnywhere(ctx context.Context, s *session.Session, column, cols int) (session.Outcome, error) {
	var err error
	for i := 0; i < cols; i++ {
		var out session.Outcome
		out, err = s.Drop(ctx, (column+i)%cols)
		if !errors.Is(err, session.ErrColumnFull) {
			return out, err
		}
	}
	return session.Outcome{}, err
}

func summarize(games []GameStats, field func(GameStats) int) Summary {
	values := make([]float64, len(games))
	for i, g := range games {
		values[i] = float64(field(g))
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) < 2 {
		std = 0
	}
	return Summary{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
}
