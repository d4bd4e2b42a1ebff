package shades

import (
	"errors"
	"fmt"
)

// Ошибки делятся на два класса: нарушение предусловий вызывающим
// (ErrPrecondition) и внутренняя несогласованность движка (ErrInternal).
var (
	ErrPrecondition = errors.New("shades: precondition violation")

	ErrOutOfRange  = fmt.Errorf("%w: coordinate out of range", ErrPrecondition)
	ErrInvalidTier = fmt.Errorf("%w: invalid tier", ErrPrecondition)
	ErrOccupied    = fmt.Errorf("%w: cell occupied", ErrPrecondition)
	ErrInvalidDims = fmt.Errorf("%w: invalid grid dimensions", ErrPrecondition)
	ErrMalformed   = fmt.Errorf("%w: malformed board", ErrPrecondition)
	ErrNilGrid     = fmt.Errorf("%w: nil grid", ErrPrecondition)

	ErrInternal = errors.New("shades: internal consistency failure")

	ErrIterationCap = fmt.Errorf("%w: stabilization exceeded round cap", ErrInternal)
	ErrInvariant    = fmt.Errorf("%w: invariant violated", ErrInternal)
)

// InvariantError возвращается строгой стабилизацией, если проверка
// инвариантов нашла нарушение в поле, объявленном стабильным.
type InvariantError struct {
	Violation Violation
	Grid      *Grid // поле, на котором найдено нарушение
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvariant, e.Violation)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

// IsPrecondition сообщает, что ошибка вызвана некорректным запросом
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrPrecondition)
}

// IsInternal сообщает о дефекте самого движка
func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}
