package shades

// MergePass делает один проход слияния по полю g (на месте).
//
// Сливаются только вертикальные соседи: клетка (x, y) и (x, y+1) с равным
// уровнем ниже MaxTier. Нижняя клетка получает уровень+1, верхняя
// становится пустой. Обход row-major снизу вверх, поэтому результат
// детерминирован. Возвращает количество слияний.
func MergePass(g *Grid) int {
	merges := 0
	for y := 0; y+1 < g.dims.Rows; y++ {
		for x := 0; x < g.dims.Cols; x++ {
			lower := g.at(x, y)
			if !foldable(lower, g.dims.MaxTier) || g.at(x, y+1) != lower {
				continue
			}
			g.set(x, y, lower+1)
			g.set(x, y+1, Empty)
			merges++
		}
	}
	return merges
}

// foldable: плитки MaxTier терминальны и не сливаются никогда
func foldable(t, maxTier Tier) bool {
	return t.Occupied() && t < maxTier
}
