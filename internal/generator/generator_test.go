package generator

import (
	"testing"

	"github.com/annel0/shades/internal/shades"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardIsDeterministicPerSeed(t *testing.T) {
	a, err := New(99, shades.DefaultDims())
	require.NoError(t, err)
	b, err := New(99, shades.DefaultDims())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		ga, err := a.Board()
		require.NoError(t, err)
		gb, err := b.Board()
		require.NoError(t, err)
		assert.True(t, ga.Equal(gb), "поле %d должно совпадать:\n%s\n%s", i, ga, gb)
	}
}

func TestBoardHasNoFloatingTiles(t *testing.T) {
	bg, err := New(3, shades.DefaultDims())
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		g, err := bg.Board()
		require.NoError(t, err)

		v := shades.FirstInvariantViolation(g)
		if v != nil {
			assert.NotEqual(t, shades.ViolationFloating, v.Kind, "висящая плитка:\n%s", g)
		}
		for _, tier := range g.Cells() {
			assert.LessOrEqual(t, tier, g.MaxTier())
		}
	}
}

func TestScatteredDensity(t *testing.T) {
	d := shades.Dims{Rows: 20, Cols: 20, MaxTier: 4}
	bg, err := New(11, d)
	require.NoError(t, err)

	empty, err := bg.Scattered(0)
	require.NoError(t, err)
	assert.Zero(t, shades.CountOccupied(empty))

	full, err := bg.Scattered(1)
	require.NoError(t, err)
	assert.Equal(t, d.Size(), shades.CountOccupied(full))
}

func TestTierAndColumnRanges(t *testing.T) {
	bg, err := New(5, shades.DefaultDims())
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		tier := bg.Tier(2)
		assert.GreaterOrEqual(t, tier, shades.Tier(1))
		assert.LessOrEqual(t, tier, shades.Tier(2))

		col := bg.Column()
		assert.GreaterOrEqual(t, col, 0)
		assert.Less(t, col, shades.DefaultCols)
	}
}

func TestNewRejectsBadDims(t *testing.T) {
	_, err := New(1, shades.Dims{Rows: 0, Cols: 5, MaxTier: 4})
	assert.ErrorIs(t, err, shades.ErrInvalidDims)
}
