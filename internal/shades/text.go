package shades

import (
	"fmt"
	"strings"
)

const emptyGlyph = '.'

// String печатает поле сверху вниз: первая строка — верхний ряд.
// Пустая клетка — '.', занятая — цифра уровня.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.dims.Cols + 1) * g.dims.Rows)
	for y := g.dims.Rows - 1; y >= 0; y-- {
		for x := 0; x < g.dims.Cols; x++ {
			sb.WriteByte(glyph(g.at(x, y)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func glyph(t Tier) byte {
	switch {
	case t == Empty:
		return emptyGlyph
	case t <= MaxTierLimit:
		return '0' + byte(t)
	default:
		return '?'
	}
}

// ParseGrid разбирает поле в формате String. Размеры берутся из текста,
// максимальный уровень — DefaultMaxTier.
func ParseGrid(text string) (*Grid, error) {
	return ParseGridMax(text, DefaultMaxTier)
}

// ParseGridMax как ParseGrid, но с заданным максимальным уровнем
func ParseGridMax(text string, maxTier Tier) (*Grid, error) {
	lines := boardLines(text)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty board", ErrMalformed)
	}
	return ParseGridDims(Dims{Rows: len(lines), Cols: len(lines[0]), MaxTier: maxTier}, text)
}

// ParseGridDims разбирает текст и кладёт строки в нижнюю часть поля d.
// Строк может быть меньше d.Rows — верхние ряды остаются пустыми.
// Пустые строки и строки с '#' пропускаются.
func ParseGridDims(d Dims, text string) (*Grid, error) {
	g, err := NewGridDims(d)
	if err != nil {
		return nil, err
	}

	lines := boardLines(text)
	if len(lines) > d.Rows {
		return nil, fmt.Errorf("%w: %d lines for %d rows", ErrMalformed, len(lines), d.Rows)
	}

	for i, line := range lines {
		if len(line) != d.Cols {
			return nil, fmt.Errorf("%w: line %d has %d cells, want %d", ErrMalformed, i+1, len(line), d.Cols)
		}
		y := len(lines) - 1 - i
		for x := 0; x < len(line); x++ {
			t, err := parseGlyph(line[x])
			if err != nil {
				return nil, fmt.Errorf("line %d col %d: %w", i+1, x+1, err)
			}
			if t > d.MaxTier {
				return nil, fmt.Errorf("%w: %d > %d at line %d col %d", ErrInvalidTier, t, d.MaxTier, i+1, x+1)
			}
			g.set(x, y, t)
		}
	}
	return g, nil
}

func parseGlyph(c byte) (Tier, error) {
	switch {
	case c == emptyGlyph || c == '0':
		return Empty, nil
	case c >= '1' && c <= '9':
		return Tier(c - '0'), nil
	default:
		return Empty, fmt.Errorf("%w: unexpected %q", ErrMalformed, c)
	}
}

func boardLines(text string) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
