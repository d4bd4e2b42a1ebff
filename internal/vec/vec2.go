package vec

// Vec2 представляет 2D координаты клетки поля.
// Y растёт снизу вверх: Y == 0 — нижний ряд, на который падают плитки.
type Vec2 struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Up возвращает соседнюю клетку сверху
func (v Vec2) Up() Vec2 {
	return Vec2{X: v.X, Y: v.Y + 1}
}

// Down возвращает соседнюю клетку снизу
func (v Vec2) Down() Vec2 {
	return Vec2{X: v.X, Y: v.Y - 1}
}

// InBounds проверяет, что координаты лежат в прямоугольнике cols x rows
func (v Vec2) InBounds(cols, rows int) bool {
	return v.X >= 0 && v.X < cols && v.Y >= 0 && v.Y < rows
}
