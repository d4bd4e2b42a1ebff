package shades

import (
	"fmt"

	"github.com/annel0/shades/internal/vec"
)

// Grid — поле фиксированного размера с уровнями плиток.
// Клетки хранятся построчно, индекс считается через CellIndex.
type Grid struct {
	dims  Dims
	cells []Tier
}

// NewGrid создаёт пустое поле rows x cols с DefaultMaxTier
func NewGrid(rows, cols int) (*Grid, error) {
	return NewGridDims(Dims{Rows: rows, Cols: cols, MaxTier: DefaultMaxTier})
}

// NewGridDims создаёт пустое поле с указанными размерами
func NewGridDims(d Dims) (*Grid, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Grid{
		dims:  d,
		cells: make([]Tier, d.Size()),
	}, nil
}

// GridFromCells собирает поле из готового построчного среза.
// Срез копируется; каждый уровень проверяется на диапазон.
func GridFromCells(d Dims, cells []Tier) (*Grid, error) {
	g, err := NewGridDims(d)
	if err != nil {
		return nil, err
	}
	if len(cells) != d.Size() {
		return nil, fmt.Errorf("%w: %d cells for %dx%d grid", ErrMalformed, len(cells), d.Cols, d.Rows)
	}
	for i, t := range cells {
		if t > d.MaxTier {
			return nil, fmt.Errorf("%w: tier %d at %v exceeds %d", ErrInvalidTier, t, CoordOf(i, d.Cols), d.MaxTier)
		}
	}
	copy(g.cells, cells)
	return g, nil
}

// Dims возвращает размеры поля
func (g *Grid) Dims() Dims {
	return g.dims
}

func (g *Grid) Rows() int     { return g.dims.Rows }
func (g *Grid) Cols() int     { return g.dims.Cols }
func (g *Grid) MaxTier() Tier { return g.dims.MaxTier }

// Get возвращает уровень клетки; за пределами поля — Empty
func (g *Grid) Get(p vec.Vec2) Tier {
	if !g.dims.Contains(p) {
		return Empty
	}
	return g.at(p.X, p.Y)
}

// Set записывает уровень в клетку. Empty очищает клетку.
// Используется для подготовки произвольных позиций; обычная игра идёт через Lock.
func (g *Grid) Set(p vec.Vec2, t Tier) error {
	if !g.dims.Contains(p) {
		return fmt.Errorf("%w: %v outside %dx%d", ErrOutOfRange, p, g.dims.Cols, g.dims.Rows)
	}
	if t > g.dims.MaxTier {
		return fmt.Errorf("%w: %d > %d", ErrInvalidTier, t, g.dims.MaxTier)
	}
	g.set(p.X, p.Y, t)
	return nil
}

// Row возвращает копию ряда y или nil, если ряда нет
func (g *Grid) Row(y int) []Tier {
	if y < 0 || y >= g.dims.Rows {
		return nil
	}
	row := make([]Tier, g.dims.Cols)
	copy(row, g.cells[CellIndex(0, y, g.dims.Cols):CellIndex(0, y+1, g.dims.Cols)])
	return row
}

// Cells возвращает копию всех клеток в порядке CellIndex
func (g *Grid) Cells() []Tier {
	cells := make([]Tier, len(g.cells))
	copy(cells, g.cells)
	return cells
}

// Clone создаёт независимую копию поля
func (g *Grid) Clone() *Grid {
	return &Grid{dims: g.dims, cells: g.Cells()}
}

// Equal сравнивает размеры и содержимое
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.dims != other.dims {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// LandingRow возвращает нижнюю свободную клетку колонки x — туда
// приземлится брошенная плитка. false, если колонка заполнена.
func (g *Grid) LandingRow(x int) (int, bool) {
	if x < 0 || x >= g.dims.Cols {
		return 0, false
	}
	for y := 0; y < g.dims.Rows; y++ {
		if g.at(x, y) == Empty {
			return y, true
		}
	}
	return 0, false
}

// CountOccupied возвращает количество непустых клеток (0 для nil)
func CountOccupied(g *Grid) int {
	if g == nil {
		return 0
	}
	n := 0
	for _, t := range g.cells {
		if t.Occupied() {
			n++
		}
	}
	return n
}

func (g *Grid) at(x, y int) Tier {
	return g.cells[CellIndex(x, y, g.dims.Cols)]
}

func (g *Grid) set(x, y int, t Tier) {
	g.cells[CellIndex(x, y, g.dims.Cols)] = t
}
