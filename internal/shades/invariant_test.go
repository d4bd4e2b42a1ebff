package shades

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstInvariantViolation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *Violation
	}{
		{"empty grid", ".....", nil},
		{"stable mixed board", "1....\n21...\n12343", nil},
		{"horizontal equal neighbours are fine", "11211", nil},
		{"terminal pair in a column", "4....\n4....", nil},
		{
			"floating tile",
			"..3..\n.....",
			&Violation{Kind: ViolationFloating, Pos: at(2, 1), Tier: 3},
		},
		{
			"unmerged vertical pair",
			"2....\n2....",
			&Violation{Kind: ViolationMergeable, Pos: at(0, 0), Tier: 2},
		},
		{
			"uniform full row",
			"1....\n33333",
			&Violation{Kind: ViolationClearable, Pos: at(0, 0), Tier: 3},
		},
		{
			"floating reported before mergeable",
			"1.1..\n1....",
			&Violation{Kind: ViolationFloating, Pos: at(2, 1), Tier: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := board(t, width5, tt.text)
			assert.Equal(t, tt.want, FirstInvariantViolation(g))
		})
	}
}

func TestFirstInvariantViolationTierRange(t *testing.T) {
	g := board(t, width5, "2....\n2....")
	g.cells[CellIndex(3, 0, 5)] = 9

	v := FirstInvariantViolation(g)
	require.NotNil(t, v)
	assert.Equal(t, ViolationTierRange, v.Kind, "диапазон проверяется первым")
	assert.Equal(t, at(3, 0), v.Pos)
	assert.Equal(t, Tier(9), v.Tier)
}

func TestFirstInvariantViolationIsReadOnly(t *testing.T) {
	g := board(t, width5, "2....\n2....")
	before := g.Clone()

	require.NotNil(t, FirstInvariantViolation(g))
	assert.True(t, before.Equal(g))
}

func TestViolationFormatting(t *testing.T) {
	v := Violation{Kind: ViolationClearable, Pos: at(0, 2), Tier: 3}
	assert.Equal(t, "row 2 uniformly filled with tier 3", v.String())

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"clearable","pos":{"x":0,"y":2},"tier":3}`, string(data))

	assert.Equal(t, "unknown", ViolationKind(0).String())
}

func TestViolationJSONRoundTrip(t *testing.T) {
	g := board(t, width5, "2....\n2....")
	v := FirstInvariantViolation(g)
	require.NotNil(t, v)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"mergeable","pos":{"x":0,"y":0},"tier":2}`, string(data))

	var decoded Violation
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *v, decoded)
	assert.Equal(t, "unmerged pair of tier 2 at (0,0)-(0,1)", decoded.String())
}

func TestViolationKindUnmarshalText(t *testing.T) {
	for kind, name := range violationNames {
		var k ViolationKind
		require.NoError(t, k.UnmarshalText([]byte(name)))
		assert.Equal(t, kind, k)
	}

	var k ViolationKind
	assert.ErrorIs(t, k.UnmarshalText([]byte("sideways")), ErrMalformed)
	assert.Equal(t, ViolationKind(0), k, "при ошибке значение не меняется")
}

func TestNilGridHasNoViolations(t *testing.T) {
	assert.Nil(t, FirstInvariantViolation(nil))
	assert.Equal(t, 0, CountOccupied(nil))
}
