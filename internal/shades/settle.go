package shades

// SettlePass опускает плитки каждой колонки к y == 0, сохраняя их порядок.
// Возвращает true, если хоть одна плитка сдвинулась.
func SettlePass(g *Grid) bool {
	moved := false
	for x := 0; x < g.dims.Cols; x++ {
		dst := 0
		for y := 0; y < g.dims.Rows; y++ {
			t := g.at(x, y)
			if !t.Occupied() {
				continue
			}
			if y != dst {
				g.set(x, dst, t)
				g.set(x, y, Empty)
				moved = true
			}
			dst++
		}
	}
	return moved
}
