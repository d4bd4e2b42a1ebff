package shades

import "fmt"

// Options управляет стабилизацией.
type Options struct {
	// StrictInvariants запускает проверку инвариантов после стабилизации
	// и возвращает *InvariantError вместо несогласованного поля.
	StrictInvariants bool
	// MaxRounds ограничивает число раундов; <= 0 — DefaultMaxRounds.
	MaxRounds int
}

// Result — поле после стабилизации и накопленные счётчики.
type Result struct {
	Grid   *Grid
	Merges int // количество слияний пар
	Clears int // количество очищенных рядов
	Rounds int // выполненные раунды, включая последний без изменений
}

// DefaultMaxRounds — верхняя граница числа раундов для поля d.
// Каждый раунд с изменениями, кроме первого, убирает хотя бы одну плитку.
func DefaultMaxRounds(d Dims) int {
	return d.Size() + 2
}

type driverState uint8

const (
	stateScanning driverState = iota
	stateStable
)

// ResolveStable стабилизирует копию g без новой плитки.
// Пустое или уже стабильное поле — допустимый no-op.
func ResolveStable(g *Grid, opts Options) (Result, error) {
	if g == nil {
		return Result{}, ErrNilGrid
	}
	return resolve(g.Clone(), opts)
}

// resolve чередует проходы до неподвижной точки. work принадлежит драйверу.
func resolve(work *Grid, opts Options) (Result, error) {
	limit := opts.MaxRounds
	if limit <= 0 {
		limit = DefaultMaxRounds(work.dims)
	}

	res := Result{Grid: work}
	for state := stateScanning; state == stateScanning; {
		if res.Rounds >= limit {
			return Result{}, fmt.Errorf("%w: %d rounds on %dx%d grid", ErrIterationCap, limit, work.dims.Cols, work.dims.Rows)
		}
		res.Rounds++

		moved := SettlePass(work)

		merges := MergePass(work)
		if merges > 0 {
			SettlePass(work)
		}

		clears := ClearPass(work)
		if clears > 0 {
			SettlePass(work)
		}

		res.Merges += merges
		res.Clears += clears

		if !moved && merges == 0 && clears == 0 {
			state = stateStable
		}
	}

	if opts.StrictInvariants {
		if v := FirstInvariantViolation(work); v != nil {
			return Result{}, &InvariantError{Violation: *v, Grid: work}
		}
	}
	return res, nil
}
