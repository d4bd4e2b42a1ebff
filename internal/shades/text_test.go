package shades

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var small = Dims{Rows: 4, Cols: 5, MaxTier: DefaultMaxTier}

func newGolden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestGoldenResolvedBoards(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"chain_reaction", ".....\n3....\n13333\n12222\n"},
		{"column_cascade", "3....\n2....\n1....\n1....\n"},
		{"clear_unblocks_merge", "1....\n22222\n13333\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := board(t, small, tt.input)
			res, err := ResolveStable(g, Options{StrictInvariants: true})
			require.NoError(t, err)

			newGolden(t).Assert(t, tt.name, []byte(res.Grid.String()))
		})
	}
}

func TestGoldenLockIsolated(t *testing.T) {
	g, err := NewGridDims(small)
	require.NoError(t, err)

	res, err := LockResolve(g, Placement{Pos: at(2, 0), Tier: 1}, Options{StrictInvariants: true})
	require.NoError(t, err)

	newGolden(t).Assert(t, "lock_isolated", []byte(res.Grid.String()))
}

func TestParseGridRoundTrip(t *testing.T) {
	text := "1....\n21...\n12343\n"

	g, err := ParseGrid(text)
	require.NoError(t, err)

	assert.Equal(t, Dims{Rows: 3, Cols: 5, MaxTier: DefaultMaxTier}, g.Dims())
	assert.Equal(t, text, g.String())
	assert.Equal(t, Tier(1), g.Get(at(0, 2)))
	assert.Equal(t, Tier(4), g.Get(at(3, 0)))
}

func TestParseGridDimsPadsTopRows(t *testing.T) {
	g := board(t, small, "# комментарий\n\n  12...  \n")

	assert.Equal(t, ".....\n.....\n.....\n12...\n", g.String())
}

func TestParseGridErrors(t *testing.T) {
	tests := []struct {
		name string
		dims Dims
		text string
		want error
	}{
		{"ragged lines", small, "12...\n1..\n", ErrMalformed},
		{"too many lines", small, ".....\n.....\n.....\n.....\n.....\n", ErrMalformed},
		{"unknown glyph", small, "1x...\n", ErrMalformed},
		{"tier above max", small, "15...\n", ErrInvalidTier},
		{"bad dims", Dims{Rows: 0, Cols: 5, MaxTier: 4}, "", ErrInvalidDims},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGridDims(tt.dims, tt.text)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsPrecondition(err))
		})
	}

	_, err := ParseGrid("\n# пусто\n")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseGridMax(t *testing.T) {
	g, err := ParseGridMax("6.\n12\n", 6)
	require.NoError(t, err)
	assert.Equal(t, Tier(6), g.MaxTier())
	assert.Equal(t, Tier(6), g.Get(at(0, 1)))

	_, err = ParseGridMax("6.\n12\n", 4)
	assert.ErrorIs(t, err, ErrInvalidTier)

	_, err = ParseGridMax("1\n", 0)
	assert.ErrorIs(t, err, ErrInvalidDims)
}
