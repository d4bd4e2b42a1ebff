package sim

import (
	"context"
	"testing"

	"github.com/annel0/shades/internal/shades"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPlaysAllGames(t *testing.T) {
	cfg := Config{
		Games:        24,
		Workers:      4,
		Seed:         100,
		MaxDrops:     2000,
		Dims:         shades.DefaultDims(),
		SpawnMaxTier: 2,
	}

	report, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, report.Games, cfg.Games)

	for i, g := range report.Games {
		assert.Equal(t, i, g.Game)
		assert.Equal(t, cfg.Seed+int64(i), g.Seed)
		assert.True(t, g.GameOver || g.Drops == cfg.MaxDrops, "партия %d", i)
		assert.Positive(t, g.Drops)
	}
	assert.GreaterOrEqual(t, report.Drops.Max, report.Drops.Mean)
	assert.LessOrEqual(t, report.Drops.Min, report.Drops.Mean)
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := Config{Games: 6, Workers: 3, Seed: 5, MaxDrops: 30, Dims: shades.DefaultDims(), SpawnMaxTier: 3}

	a, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	cfg.Workers = 1
	b, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Games, b.Games)
	for _, g := range a.Games {
		assert.LessOrEqual(t, g.Drops, 30)
	}
}

func TestSummarize(t *testing.T) {
	games := []GameStats{{Drops: 2}, {Drops: 4}, {Drops: 6}}
	s := summarize(games, func(g GameStats) int { return g.Drops })
	assert.InDelta(t, 4.0, s.Mean, 1e-9)
	assert.InDelta(t, 2.0, s.StdDev, 1e-9)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 6.0, s.Max)

	single := summarize(games[:1], func(g GameStats) int { return g.Drops })
	assert.Zero(t, single.StdDev)
}

func TestRunValidatesConfig(t *testing.T) {
	_, err := Run(context.Background(), Config{Games: 0, Dims: shades.DefaultDims()})
	assert.Error(t, err)

	_, err = Run(context.Background(), Config{Games: 1, Dims: shades.Dims{}})
	assert.ErrorIs(t, err, shades.ErrInvalidDims)
}

func TestRunHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Config{Games: 2, Dims: shades.DefaultDims()})
	assert.ErrorIs(t, err, context.Canceled)
}
