package shades

import "github.com/annel0/shades/internal/vec"

// CellIndex переводит координаты клетки в линейный индекс (row-major, x быстрее).
// Все компоненты движка обходят поле в этом порядке.
func CellIndex(x, y, cols int) int {
	return y*cols + x
}

// CoordOf — обратное преобразование к CellIndex
func CoordOf(i, cols int) vec.Vec2 {
	return vec.Vec2{X: i % cols, Y: i / cols}
}
