// Package shades реализует детерминированный движок разрешения поля
// в духе игры Shades: плитки падают в колонки, одинаковые оттенки,
// стоящие друг на друге, сливаются в более тёмный, а ряд из одинаковых
// плиток исчезает.
//
// Движок не хранит состояния между вызовами: каждая операция получает
// поле и возвращает результат, исходное поле вызывающего не меняется.
package shades

import (
	"fmt"

	"github.com/annel0/shades/internal/vec"
)

// Tier — уровень (оттенок) плитки. Empty означает пустую клетку.
type Tier uint8

const (
	Empty Tier = 0

	// DefaultMaxTier — самый тёмный оттенок, такие плитки больше не сливаются
	DefaultMaxTier Tier = 4
	// MaxTierLimit ограничен текстовым форматом: одна цифра на клетку
	MaxTierLimit Tier = 9

	DefaultRows = 8
	DefaultCols = 5

	// MaxDimension ограничен форматом снимка (размеры хранятся в одном байте)
	MaxDimension = 255
)

// Occupied возвращает true для непустой клетки
func (t Tier) Occupied() bool {
	return t != Empty
}

// Dims описывает размеры поля и максимальный уровень плитки.
type Dims struct {
	Rows    int  `json:"rows"`
	Cols    int  `json:"cols"`
	MaxTier Tier `json:"max_tier"`
}

// DefaultDims возвращает стандартное поле 5x8 с четырьмя оттенками
func DefaultDims() Dims {
	return Dims{Rows: DefaultRows, Cols: DefaultCols, MaxTier: DefaultMaxTier}
}

// Validate проверяет размеры поля
func (d Dims) Validate() error {
	if d.Rows < 1 || d.Cols < 1 || d.Rows > MaxDimension || d.Cols > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDims, d.Cols, d.Rows)
	}
	if d.MaxTier < 1 || d.MaxTier > MaxTierLimit {
		return fmt.Errorf("%w: max tier %d not in [1, %d]", ErrInvalidDims, d.MaxTier, MaxTierLimit)
	}
	return nil
}

// Size возвращает количество клеток
func (d Dims) Size() int {
	return d.Rows * d.Cols
}

// Contains проверяет, что клетка лежит внутри поля
func (d Dims) Contains(p vec.Vec2) bool {
	return p.InBounds(d.Cols, d.Rows)
}
