package shades

import (
	"testing"

	"github.com/annel0/shades/internal/vec"
	"github.com/stretchr/testify/require"
)

// board разбирает поле в формате String, строки кладутся в низ поля d
func board(t *testing.T, d Dims, text string) *Grid {
	t.Helper()
	g, err := ParseGridDims(d, text)
	require.NoError(t, err)
	return g
}

// at — короткая запись для координат в тестах
func at(x, y int) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

var width5 = Dims{Rows: DefaultRows, Cols: 5, MaxTier: DefaultMaxTier}
