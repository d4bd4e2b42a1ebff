package shades

// ClearPass очищает все ряды, полностью занятые плитками одного уровня.
// Ряд со смешанными уровнями не очищается, даже если заполнен.
// Возвращает количество очищенных рядов.
func ClearPass(g *Grid) int {
	clears := 0
	for y := 0; y < g.dims.Rows; y++ {
		if !rowClearable(g, y) {
			continue
		}
		for x := 0; x < g.dims.Cols; x++ {
			g.set(x, y, Empty)
		}
		clears++
	}
	return clears
}

func rowClearable(g *Grid, y int) bool {
	first := g.at(0, y)
	if !first.Occupied() {
		return false
	}
	for x := 1; x < g.dims.Cols; x++ {
		if g.at(x, y) != first {
			return false
		}
	}
	return true
}
