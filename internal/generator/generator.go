// Package generator строит произвольные поля для тестов, симуляции и CLI.
// Высоты колонок задаёт шум Перлина, уровни плиток — сидированный RNG,
// поэтому один и тот же сид всегда даёт ту же последовательность полей.
package generator

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/annel0/shades/internal/shades"
	"github.com/annel0/shades/internal/util"
)

// BoardGenerator генерирует поля заданного размера.
// Экземпляр не потокобезопасен: каждой горутине — свой генератор.
type BoardGenerator struct {
	Dims       shades.Dims
	Seed       int64
	NoiseScale float64 // Масштаб шума по колонкам
	FillRatio  float64 // Средняя заполненность колонки (от 0 до 1)

	noise  *util.Noise
	rng    *rand.Rand
	boards int
}

// New создаёт генератор для полей d
func New(seed int64, d shades.Dims) (*BoardGenerator, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &BoardGenerator{
		Dims:       d,
		Seed:       seed,
		NoiseScale: 0.35,
		FillRatio:  0.6,
		noise:      util.NewNoise(seed),
		rng:        rand.New(rand.NewSource(seed)),
	}, nil
}

// Board возвращает поле с колонками, лежащими на дне (без висящих плиток).
// Поле может быть нестабильным: пары и полные ряды не исключаются.
func (bg *BoardGenerator) Board() (*shades.Grid, error) {
	d := bg.Dims
	cells := make([]shades.Tier, d.Size())

	// Каждое новое поле берёт следующую строку шума
	noiseY := float64(bg.boards) * bg.NoiseScale * 3
	bg.boards++

	for x := 0; x < d.Cols; x++ {
		height := bg.columnHeight(bg.noise.Noise2D(float64(x)*bg.NoiseScale, noiseY))
		for y := 0; y < height; y++ {
			cells[shades.CellIndex(x, y, d.Cols)] = bg.Tier(d.MaxTier)
		}
	}

	grid, err := shades.GridFromCells(d, cells)
	if err != nil {
		return nil, fmt.Errorf("generate board: %w", err)
	}
	return grid, nil
}

// Scattered возвращает поле со случайно разбросанными плитками;
// density — вероятность занятости клетки.
func (bg *BoardGenerator) Scattered(density float64) (*shades.Grid, error) {
	d := bg.Dims
	cells := make([]shades.Tier, d.Size())
	for i := range cells {
		if bg.rng.Float64() < density {
			cells[i] = bg.Tier(d.MaxTier)
		}
	}

	grid, err := shades.GridFromCells(d, cells)
	if err != nil {
		return nil, fmt.Errorf("generate scattered board: %w", err)
	}
	return grid, nil
}

// Tier возвращает случайный уровень в [1, max]
func (bg *BoardGenerator) Tier(max shades.Tier) shades.Tier {
	if max < 1 {
		max = 1
	}
	return shades.Tier(1 + bg.rng.Intn(int(max)))
}

// Column возвращает случайную колонку поля
func (bg *BoardGenerator) Column() int {
	return bg.rng.Intn(bg.Dims.Cols)
}

// columnHeight переводит значение шума в высоту колонки с небольшим разбросом
func (bg *BoardGenerator) columnHeight(noise float64) int {
	rows := bg.Dims.Rows
	base := int(math.Round(noise * 2 * bg.FillRatio * float64(rows)))
	height := base + bg.rng.Intn(3) - 1
	if height < 0 {
		return 0
	}
	if height > rows {
		return rows
	}
	return height
}
