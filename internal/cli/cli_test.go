package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SHADES_CONFIG", "")

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveFromStdin(t *testing.T) {
	out, err := execute(t, "..\n1.\n1.\n", "resolve")
	require.NoError(t, err)
	assert.Equal(t, "..\n..\n2.\nmerges=1 clears=0 rounds=2\n", out)
}

func TestResolveJSONFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.txt")
	require.NoError(t, os.WriteFile(path, []byte("# колонка\n2\n2\n"), 0o644))

	out, err := execute(t, "", "resolve", path, "--format", "json")
	require.NoError(t, err)

	var res ResolveOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, ".\n.\n", res.Board, "тройка в колонке из одной клетки очищает ряд")
	assert.Equal(t, 1, res.Merges)
	assert.Equal(t, 1, res.Clears)
}

func TestCheck(t *testing.T) {
	out, err := execute(t, "1.\n2.\n", "check")
	require.NoError(t, err)
	assert.Equal(t, "stable\n", out)

	out, err = execute(t, "1.\n.2\n", "check")
	assert.ErrorIs(t, err, ErrUnstable)
	assert.Contains(t, out, "unstable")

	out, err = execute(t, "11\n", "check", "--format", "json")
	assert.ErrorIs(t, err, ErrUnstable)
	var res CheckOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Stable)
	require.NotNil(t, res.Violation)
}

func TestGenIsDeterministic(t *testing.T) {
	a, err := execute(t, "", "gen", "--seed", "3", "--count", "2")
	require.NoError(t, err)
	b, err := execute(t, "", "gen", "--seed", "3", "--count", "2")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, a, "# seed=3 board=1")

	out, err := execute(t, "", "gen", "--seed", "3", "--resolve", "--format", "json")
	require.NoError(t, err)
	var boards []string
	require.NoError(t, json.Unmarshal([]byte(out), &boards))
	require.Len(t, boards, 1)

	_, err = execute(t, boards[0], "check")
	assert.NoError(t, err)
}

func TestSim(t *testing.T) {
	out, err := execute(t, "", "sim", "--games", "4", "--workers", "2", "--max-drops", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "games=4")
	assert.Contains(t, out, "drops")
}

func TestSnapshot(t *testing.T) {
	out, err := execute(t, "12\n", "snapshot")
	require.NoError(t, err)
	assert.Contains(t, out, "size=")
}

func TestBadInput(t *testing.T) {
	_, err := execute(t, "1x\n", "resolve")
	assert.Error(t, err)

	_, err = execute(t, "1\n", "resolve", "--format", "yaml")
	assert.Error(t, err)

	_, err = execute(t, "", "tail")
	assert.ErrorContains(t, err, "nats url")
}
