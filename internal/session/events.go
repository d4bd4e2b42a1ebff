package session

import (
	"context"

	"github.com/annel0/shades/internal/eventbus"
	"github.com/annel0/shades/internal/shades"
	"github.com/annel0/shades/internal/snapshot"
)

// StartedEvent — полезная нагрузка shades.session.started
type StartedEvent struct {
	Dims shades.Dims `json:"dims"`
	Seed int64       `json:"seed"`
	Next shades.Tier `json:"next"`
}

// ResolvedEvent — полезная нагрузка shades.resolved
type ResolvedEvent struct {
	Placement shades.Placement `json:"placement"`
	Merges    int              `json:"merges"`
	Clears    int              `json:"clears"`
	Rounds    int              `json:"rounds"`
	Snapshot  []byte           `json:"snapshot"` // snapshot.Encode
}

// GameOverEvent — полезная нагрузка shades.game_over
type GameOverEvent struct {
	Stats    Stats  `json:"stats"`
	Snapshot []byte `json:"snapshot"`
}

// InvariantFailedEvent — полезная нагрузка shades.invariant_failed
type InvariantFailedEvent struct {
	Placement shades.Placement  `json:"placement"`
	Error     string            `json:"error"`
	Violation *shades.Violation `json:"violation,omitempty"`
	Snapshot  []byte            `json:"snapshot"`
}

// encodeBoard сжимает поле для события; ошибка кодека только логируется
func (s *Session) encodeBoard(g *shades.Grid) []byte {
	data, err := snapshot.Encode(g)
	if err != nil {
		s.deps.Logger.Warn("⚠️ Сессия %s: не удалось закодировать поле: %v", s.id, err)
		return nil
	}
	return data
}

// publish отправляет событие в шину; ход не откатывается при ошибке шины
func (s *Session) publish(ctx context.Context, eventType string, priority int, payload any) {
	if s.deps.Bus == nil {
		return
	}
	ev, err := eventbus.NewEnvelope(eventSource, eventType, s.id, priority, payload)
	if err != nil {
		s.deps.Logger.Warn("⚠️ Сессия %s: %v", s.id, err)
		return
	}
	if err := s.deps.Bus.Publish(ctx, ev); err != nil {
		s.deps.Logger.Warn("⚠️ Сессия %s: публикация %s не удалась: %v", s.id, eventType, err)
	}
}
