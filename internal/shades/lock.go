package shades

import (
	"fmt"

	"github.com/annel0/shades/internal/vec"
)

// Placement — запрос на фиксацию плитки: куда и какого уровня.
// Решение о клетке принимает вызывающий (слой ввода).
type Placement struct {
	Pos  vec.Vec2 `json:"pos"`
	Tier Tier     `json:"tier"`
}

// ValidatePlacement проверяет предусловия Lock, не изменяя поле
func ValidatePlacement(g *Grid, p Placement) error {
	if g == nil {
		return ErrNilGrid
	}
	if !g.dims.Contains(p.Pos) {
		return fmt.Errorf("%w: %v outside %dx%d", ErrOutOfRange, p.Pos, g.dims.Cols, g.dims.Rows)
	}
	if p.Tier == Empty || p.Tier > g.dims.MaxTier {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidTier, p.Tier, g.dims.MaxTier)
	}
	if current := g.at(p.Pos.X, p.Pos.Y); current.Occupied() {
		return fmt.Errorf("%w: %v holds tier %d", ErrOccupied, p.Pos, current)
	}
	return nil
}

// Lock записывает плитку в пустую клетку поля g (поле вызывающего).
// При нарушении предусловий поле не изменяется.
func Lock(g *Grid, p Placement) error {
	if err := ValidatePlacement(g, p); err != nil {
		return err
	}
	g.set(p.Pos.X, p.Pos.Y, p.Tier)
	return nil
}

// LockResolve фиксирует плитку на копии g и стабилизирует её.
// Поле g должно быть стабильным: тогда счётчики результата относятся
// только к каскаду от этой плитки. Если g нестабильно, в счётчики
// попадают и слияния с очистками, которые были на поле до фиксации.
func LockResolve(g *Grid, p Placement, opts Options) (Result, error) {
	if err := ValidatePlacement(g, p); err != nil {
		return Result{}, err
	}
	work := g.Clone()
	work.set(p.Pos.X, p.Pos.Y, p.Tier)
	return resolve(work, opts)
}
