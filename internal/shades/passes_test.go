package shades

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergePass(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		merges int
	}{
		{
			name:   "vertical pair folds into lower cell",
			input:  "1\n1\n",
			want:   ".\n2\n",
			merges: 1,
		},
		{
			name:   "column of four folds pairwise",
			input:  "1\n1\n1\n1\n",
			want:   ".\n2\n.\n2\n",
			merges: 2,
		},
		{
			name:   "odd column leaves the top tile",
			input:  "2\n2\n2\n",
			want:   "2\n.\n3\n",
			merges: 1,
		},
		{
			name:   "max tier is terminal",
			input:  "4\n4\n",
			want:   "4\n4\n",
			merges: 0,
		},
		{
			name:   "horizontal neighbours never fold",
			input:  "11\n",
			want:   "11\n",
			merges: 0,
		},
		{
			name:   "different tiers stay",
			input:  "2\n1\n",
			want:   "2\n1\n",
			merges: 0,
		},
		{
			name:   "independent columns",
			input:  "3.1\n312\n",
			want:   "..1\n412\n",
			merges: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseGrid(tt.input)
			require.NoError(t, err)

			merges := MergePass(g)

			assert.Equal(t, tt.merges, merges)
			if diff := cmp.Diff(tt.want, g.String()); diff != "" {
				t.Errorf("MergePass() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClearPass(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		clears int
	}{
		{"full mixed row stays", "11211\n", "11211\n", 0},
		{"uniform row clears", "22222\n", ".....\n", 1},
		{"every qualifying row counts", "33333\n12121\n22222\n", ".....\n12121\n.....\n", 2},
		{"incomplete uniform row stays", "2222.\n", "2222.\n", 0},
		{"empty row is not clearable", ".....\n", ".....\n", 0},
		{"max tier rows clear too", "44444\n", ".....\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseGrid(tt.input)
			require.NoError(t, err)

			clears := ClearPass(g)

			assert.Equal(t, tt.clears, clears)
			if diff := cmp.Diff(tt.want, g.String()); diff != "" {
				t.Errorf("ClearPass() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSettlePass(t *testing.T) {
	g, err := ParseGrid("1.\n.2\n..\n")
	require.NoError(t, err)

	assert.True(t, SettlePass(g), "плитки должны упасть")
	assert.Equal(t, "..\n..\n12\n", g.String())

	assert.False(t, SettlePass(g), "повторный проход ничего не двигает")
}

func TestSettlePassKeepsColumnOrder(t *testing.T) {
	g, err := ParseGrid("3\n.\n2\n.\n1\n")
	require.NoError(t, err)

	require.True(t, SettlePass(g))
	assert.Equal(t, ".\n.\n3\n2\n1\n", g.String())
}
