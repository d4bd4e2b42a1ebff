// Package session ведёт игровые сессии: очередь плиток, ходы в колонку,
// статистику и публикацию событий о каждом ходе.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/annel0/shades/internal/eventbus"
	"github.com/annel0/shades/internal/generator"
	"github.com/annel0/shades/internal/logging"
	"github.com/annel0/shades/internal/metrics"
	"github.com/annel0/shades/internal/observability"
	"github.com/annel0/shades/internal/shades"
	"github.com/annel0/shades/internal/vec"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const eventSource = "shades-session"

var (
	// ErrColumnFull — в колонке не осталось пустых клеток
	ErrColumnFull = fmt.Errorf("%w: column full", shades.ErrPrecondition)
	// ErrGameOver — сессия завершена, ходы больше не принимаются
	ErrGameOver = errors.New("session: game over")
	ErrNotFound = errors.New("session: not found")
)

// Config задаёт параметры новой сессии.
type Config struct {
	Dims         shades.Dims
	Options      shades.Options
	SpawnMaxTier shades.Tier // максимальный уровень выпадающей плитки
	Seed         int64
}

// Deps — внешние зависимости сессии. Bus и Metrics могут быть nil.
type Deps struct {
	Bus     eventbus.EventBus
	Metrics *metrics.EngineMetrics
	Logger  *logging.Logger
	Tracer  trace.Tracer
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = logging.GetSessionLogger()
	}
	if d.Tracer == nil {
		d.Tracer = observability.Tracer()
	}
	return d
}

// Stats — накопленная статистика сессии.
type Stats struct {
	Drops     int `json:"drops"`
	Merges    int `json:"merges"`
	Clears    int `json:"clears"`
	BestChain int `json:"best_chain"` // максимум слияний и очисток за один ход
}

// State — копия публичного состояния сессии.
type State struct {
	ID        string      `json:"id"`
	Seed      int64       `json:"seed"`
	Dims      shades.Dims `json:"dims"`
	Board     string      `json:"board"`
	Next      shades.Tier `json:"next"`
	Stats     Stats       `json:"stats"`
	GameOver  bool        `json:"game_over"`
	CreatedAt time.Time   `json:"created_at"`
}

// Outcome — результат принятого хода.
type Outcome struct {
	Placement shades.Placement `json:"placement"`
	Merges    int              `json:"merges"`
	Clears    int              `json:"clears"`
	Rounds    int              `json:"rounds"`
	State     State            `json:"state"`
}

// Session — одна игра. Методы безопасны для конкурентного вызова.
type Session struct {
	mu       sync.Mutex
	id       string
	seed     int64
	grid     *shades.Grid
	opts     shades.Options
	spawnMax shades.Tier
	spawner  *generator.BoardGenerator
	next     shades.Tier
	stats    Stats
	gameOver bool
	created  time.Time
	deps     Deps
}

// New создаёт сессию с пустым полем и публикует shades.session.started.
func New(ctx context.Context, cfg Config, deps Deps) (*Session, error) {
	grid, err := shades.NewGridDims(cfg.Dims)
	if err != nil {
		return nil, err
	}
	spawner, err := generator.New(cfg.Seed, cfg.Dims)
	if err != nil {
		return nil, err
	}

	spawnMax := cfg.SpawnMaxTier
	if spawnMax < 1 || spawnMax > cfg.Dims.MaxTier {
		spawnMax = cfg.Dims.MaxTier
	}

	s := &Session{
		id:       uuid.NewString(),
		seed:     cfg.Seed,
		grid:     grid,
		opts:     cfg.Options,
		spawnMax: spawnMax,
		spawner:  spawner,
		created:  time.Now().UTC(),
		deps:     deps.withDefaults(),
	}
	s.next = spawner.Tier(spawnMax)

	s.deps.Metrics.SessionOpened()
	s.publish(ctx, eventbus.TypeSessionStarted, 1, StartedEvent{
		Dims: cfg.Dims,
		Seed: cfg.Seed,
		Next: s.next,
	})
	s.deps.Logger.Info("🎮 Сессия %s создана (%dx%d, seed=%d)", s.id, cfg.Dims.Cols, cfg.Dims.Rows, cfg.Seed)
	return s, nil
}

// ID возвращает идентификатор сессии
func (s *Session) ID() string {
	return s.id
}

// Drop бросает очередную плитку в колонку column. Плитка встаёт
// в нижнюю пустую клетку колонки, после чего поле стабилизируется.
func (s *Session) Drop(ctx context.Context, column int) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		s.deps.Metrics.Reject(metrics.ReasonGameOver)
		return Outcome{}, ErrGameOver
	}
	if column < 0 || column >= s.grid.Cols() {
		err := fmt.Errorf("%w: column %d of %d", shades.ErrOutOfRange, column, s.grid.Cols())
		s.deps.Metrics.ObserveError(err)
		return Outcome{}, err
	}
	y, ok := s.grid.LandingRow(column)
	if !ok {
		s.deps.Metrics.Reject(metrics.ReasonColumnFull)
		return Outcome{}, fmt.Errorf("%w: column %d", ErrColumnFull, column)
	}

	p := shades.Placement{Pos: vec.Vec2{X: column, Y: y}, Tier: s.next}
	return s.lockLocked(ctx, p, true)
}

// Lock фиксирует плитку в выбранной вызывающим клетке.
// Очередь плиток при этом не сдвигается.
func (s *Session) Lock(ctx context.Context, p shades.Placement) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		s.deps.Metrics.Reject(metrics.ReasonGameOver)
		return Outcome{}, ErrGameOver
	}
	return s.lockLocked(ctx, p, false)
}

// Snapshot возвращает копию состояния
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Grid возвращает копию поля
func (s *Session) Grid() *shades.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Clone()
}

func (s *Session) stateLocked() State {
	return State{
		ID:        s.id,
		Seed:      s.seed,
		Dims:      s.grid.Dims(),
		Board:     s.grid.String(),
		Next:      s.next,
		Stats:     s.stats,
		GameOver:  s.gameOver,
		CreatedAt: s.created,
	}
}

func (s *Session) lockLocked(ctx context.Context, p shades.Placement, rollNext bool) (Outcome, error) {
	ctx, span := s.deps.Tracer.Start(ctx, "session.lock", trace.WithAttributes(
		attribute.String("session.id", s.id),
		attribute.Int("cell.x", p.Pos.X),
		attribute.Int("cell.y", p.Pos.Y),
		attribute.Int("tile.tier", int(p.Tier)),
	))
	defer span.End()

	start := time.Now()
	res, err := shades.LockResolve(s.grid, p, s.opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.deps.Metrics.ObserveError(err)
		if shades.IsInternal(err) {
			s.reportInternal(ctx, p, err)
		}
		return Outcome{}, err
	}
	s.deps.Metrics.ObserveResolve(res, time.Since(start))

	s.grid = res.Grid
	s.stats.Drops++
	s.stats.Merges += res.Merges
	s.stats.Clears += res.Clears
	if chain := res.Merges + res.Clears; chain > s.stats.BestChain {
		s.stats.BestChain = chain
	}
	if rollNext {
		s.next = s.spawner.Tier(s.spawnMax)
	}

	span.SetAttributes(
		attribute.Int("resolve.merges", res.Merges),
		attribute.Int("resolve.clears", res.Clears),
		attribute.Int("resolve.rounds", res.Rounds),
	)

	s.publish(ctx, eventbus.TypeResolved, 1, ResolvedEvent{
		Placement: p,
		Merges:    res.Merges,
		Clears:    res.Clears,
		Rounds:    res.Rounds,
		Snapshot:  s.encodeBoard(s.grid),
	})

	if !hasOpenColumn(s.grid) {
		s.gameOver = true
		s.deps.Logger.Info("🏁 Сессия %s завершена: ходов=%d слияний=%d очисток=%d", s.id, s.stats.Drops, s.stats.Merges, s.stats.Clears)
		s.publish(ctx, eventbus.TypeGameOver, 5, GameOverEvent{
			Stats:    s.stats,
			Snapshot: s.encodeBoard(s.grid),
		})
	}

	return Outcome{
		Placement: p,
		Merges:    res.Merges,
		Clears:    res.Clears,
		Rounds:    res.Rounds,
		State:     s.stateLocked(),
	}, nil
}

// reportInternal пишет в лог и шину дефект движка вместе с полем
func (s *Session) reportInternal(ctx context.Context, p shades.Placement, err error) {
	ev := InvariantFailedEvent{Placement: p, Error: err.Error()}

	board := s.grid
	var invErr *shades.InvariantError
	if errors.As(err, &invErr) {
		v := invErr.Violation
		ev.Violation = &v
		board = invErr.Grid
	}
	ev.Snapshot = s.encodeBoard(board)

	s.deps.Logger.Error("❌ Сессия %s: внутренняя ошибка движка на %v: %v\n%s", s.id, p.Pos, err, board)
	s.publish(ctx, eventbus.TypeInvariantFailed, 9, ev)
}

// hasOpenColumn сообщает, принимает ли хоть одна колонка плитку
func hasOpenColumn(g *shades.Grid) bool {
	for x := 0; x < g.Cols(); x++ {
		if _, ok := g.LandingRow(x); ok {
			return true
		}
	}
	return false
}
