package shades

import (
	"fmt"

	"github.com/annel0/shades/internal/vec"
)

// ViolationKind — вид нарушения инварианта
type ViolationKind uint8

const (
	ViolationTierRange ViolationKind = iota + 1 // уровень больше MaxTier
	ViolationFloating                           // плитка висит над пустой клеткой
	ViolationMergeable                          // пара, которая должна была слиться
	ViolationClearable                          // ряд, который должен был очиститься
)

var violationNames = map[ViolationKind]string{
	ViolationTierRange: "tier_range",
	ViolationFloating:  "floating",
	ViolationMergeable: "mergeable",
	ViolationClearable: "clearable",
}

func (k ViolationKind) String() string {
	if name, ok := violationNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText нужен для JSON-ответов API
func (k ViolationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText разбирает имя вида нарушения из событий и ответов API
func (k *ViolationKind) UnmarshalText(text []byte) error {
	for kind, name := range violationNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("%w: unknown violation kind %q", ErrMalformed, text)
}

// Violation описывает первое найденное нарушение.
// Для ViolationClearable Pos указывает на первую клетку ряда.
type Violation struct {
	Kind ViolationKind `json:"kind"`
	Pos  vec.Vec2      `json:"pos"`
	Tier Tier          `json:"tier"`
}

func (v Violation) String() string {
	switch v.Kind {
	case ViolationTierRange:
		return fmt.Sprintf("tier %d at (%d,%d) out of range", v.Tier, v.Pos.X, v.Pos.Y)
	case ViolationFloating:
		return fmt.Sprintf("tier %d at (%d,%d) floats over an empty cell", v.Tier, v.Pos.X, v.Pos.Y)
	case ViolationMergeable:
		upper := v.Pos.Up()
		return fmt.Sprintf("unmerged pair of tier %d at (%d,%d)-(%d,%d)", v.Tier, v.Pos.X, v.Pos.Y, upper.X, upper.Y)
	case ViolationClearable:
		return fmt.Sprintf("row %d uniformly filled with tier %d", v.Pos.Y, v.Tier)
	default:
		return fmt.Sprintf("unknown violation at (%d,%d)", v.Pos.X, v.Pos.Y)
	}
}

// FirstInvariantViolation перепроверяет поле, которое считается стабильным,
// и возвращает первое нарушение или nil. Проверки идут в фиксированном
// порядке, каждая обходит поле row-major. Поле не изменяется.
// Для nil-поля нарушений нет.
func FirstInvariantViolation(g *Grid) *Violation {
	if g == nil {
		return nil
	}
	checks := []func(*Grid) *Violation{
		checkTierRange,
		checkFloating,
		checkMergeable,
		checkClearable,
	}
	for _, check := range checks {
		if v := check(g); v != nil {
			return v
		}
	}
	return nil
}

func checkTierRange(g *Grid) *Violation {
	for i, t := range g.cells {
		if t > g.dims.MaxTier {
			return &Violation{Kind: ViolationTierRange, Pos: CoordOf(i, g.dims.Cols), Tier: t}
		}
	}
	return nil
}

func checkFloating(g *Grid) *Violation {
	for y := 1; y < g.dims.Rows; y++ {
		for x := 0; x < g.dims.Cols; x++ {
			p := vec.Vec2{X: x, Y: y}
			if t := g.at(x, y); t.Occupied() && !g.Get(p.Down()).Occupied() {
				return &Violation{Kind: ViolationFloating, Pos: p, Tier: t}
			}
		}
	}
	return nil
}

func checkMergeable(g *Grid) *Violation {
	for y := 0; y+1 < g.dims.Rows; y++ {
		for x := 0; x < g.dims.Cols; x++ {
			if t := g.at(x, y); foldable(t, g.dims.MaxTier) && g.at(x, y+1) == t {
				return &Violation{Kind: ViolationMergeable, Pos: vec.Vec2{X: x, Y: y}, Tier: t}
			}
		}
	}
	return nil
}

func checkClearable(g *Grid) *Violation {
	for y := 0; y < g.dims.Rows; y++ {
		if rowClearable(g, y) {
			return &Violation{Kind: ViolationClearable, Pos: vec.Vec2{X: 0, Y: y}, Tier: g.at(0, y)}
		}
	}
	return nil
}
