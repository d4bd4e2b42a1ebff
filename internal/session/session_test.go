package session

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/annel0/shades/internal/eventbus"
	"github.com/annel0/shades/internal/logging"
	"github.com/annel0/shades/internal/metrics"
	"github.com/annel0/shades/internal/shades"
	"github.com/annel0/shades/internal/snapshot"
	"github.com/annel0/shades/internal/vec"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type fixture struct {
	bus    eventbus.EventBus
	reg    *prometheus.Registry
	spans  *tracetest.InMemoryExporter
	deps   Deps
	mu     sync.Mutex
	events []*eventbus.Envelope
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bus:   eventbus.NewMemoryBus(64),
		reg:   prometheus.NewRegistry(),
		spans: tracetest.NewInMemoryExporter(),
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(f.spans))
	f.deps = Deps{
		Bus:     f.bus,
		Metrics: metrics.NewEngineMetrics(f.reg),
		Logger:  logging.NewConsoleLogger("session", io.Discard, logging.ERROR),
		Tracer:  tp.Tracer("test"),
	}
	_, err := f.bus.Subscribe(context.Background(), eventbus.Filter{}, func(ctx context.Context, ev *eventbus.Envelope) {
		f.mu.Lock()
		f.events = append(f.events, ev)
		f.mu.Unlock()
	})
	require.NoError(t, err)
	t.Cleanup(func() { f.bus.Close() })
	return f
}

// drain закрывает шину и возвращает доставленные события
func (f *fixture) drain(t *testing.T) []*eventbus.Envelope {
	t.Helper()
	require.NoError(t, f.bus.Close())
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events
}

func (f *fixture) counter(t *testing.T, name string) float64 {
	t.Helper()
	families, err := f.reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range mf.GetMetric() {
			sum += metricValue(m)
		}
		return sum
	}
	return 0
}

func metricValue(m *dto.Metric) float64 {
	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	default:
		return 0
	}
}

func eventTypes(events []*eventbus.Envelope) []string {
	types := make([]string, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.EventType)
	}
	sort.Strings(types)
	return types
}

func ones(rows, cols int) Config {
	return Config{
		Dims:         shades.Dims{Rows: rows, Cols: cols, MaxTier: 4},
		Options:      shades.Options{StrictInvariants: true},
		SpawnMaxTier: 1,
		Seed:         1,
	}
}

func TestDropMergesIntoColumn(t *testing.T) {
	f := newFixture(t)
	s, err := New(context.Background(), ones(4, 2), f.deps)
	require.NoError(t, err)
	assert.Equal(t, shades.Tier(1), s.Snapshot().Next)

	out, err := s.Drop(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, vec.Vec2{X: 0, Y: 0}, out.Placement.Pos)
	assert.Zero(t, out.Merges)

	out, err = s.Drop(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, vec.Vec2{X: 0, Y: 1}, out.Placement.Pos)
	assert.Equal(t, 1, out.Merges)
	assert.Equal(t, "..\n..\n..\n2.\n", out.State.Board)
	assert.Equal(t, Stats{Drops: 2, Merges: 1, BestChain: 1}, out.State.Stats)

	events := f.drain(t)
	assert.Equal(t, []string{eventbus.TypeResolved, eventbus.TypeResolved, eventbus.TypeSessionStarted}, eventTypes(events))

	for _, ev := range events {
		if ev.EventType != eventbus.TypeResolved {
			continue
		}
		assert.Equal(t, s.ID(), ev.CorrelationID)
		var payload ResolvedEvent
		require.NoError(t, ev.Decode(&payload))
		board, err := snapshot.Decode(payload.Snapshot)
		require.NoError(t, err)
		assert.Equal(t, 4, board.Rows())
	}

	assert.Equal(t, 2.0, f.counter(t, "shades_locks_total"))
	assert.Equal(t, 1.0, f.counter(t, "shades_merges_total"))
	assert.Equal(t, 1.0, f.counter(t, "shades_active_sessions"))
	assert.Len(t, f.spans.GetSpans(), 2)
}

func TestDropRejections(t *testing.T) {
	f := newFixture(t)
	s, err := New(context.Background(), ones(2, 2), f.deps)
	require.NoError(t, err)

	_, err = s.Drop(context.Background(), 5)
	assert.ErrorIs(t, err, shades.ErrOutOfRange)

	_, err = s.Lock(context.Background(), shades.Placement{Pos: vec.Vec2{X: 0, Y: 0}, Tier: 2})
	require.NoError(t, err)
	_, err = s.Lock(context.Background(), shades.Placement{Pos: vec.Vec2{X: 0, Y: 1}, Tier: 3})
	require.NoError(t, err)

	_, err = s.Drop(context.Background(), 0)
	assert.ErrorIs(t, err, ErrColumnFull)
	assert.True(t, shades.IsPrecondition(err))

	_, err = s.Lock(context.Background(), shades.Placement{Pos: vec.Vec2{X: 1, Y: 0}, Tier: 7})
	assert.ErrorIs(t, err, shades.ErrInvalidTier)

	assert.Equal(t, 2, s.Snapshot().Stats.Drops, "отклонённые ходы не меняют статистику")
	assert.Equal(t, 3.0, f.counter(t, "shades_rejected_total"))
}

func TestGameOver(t *testing.T) {
	f := newFixture(t)
	s, err := New(context.Background(), ones(1, 2), f.deps)
	require.NoError(t, err)

	_, err = s.Drop(context.Background(), 0)
	require.NoError(t, err)
	out, err := s.Lock(context.Background(), shades.Placement{Pos: vec.Vec2{X: 1, Y: 0}, Tier: 2})
	require.NoError(t, err)
	assert.True(t, out.State.GameOver)

	_, err = s.Drop(context.Background(), 1)
	assert.ErrorIs(t, err, ErrGameOver)
	_, err = s.Lock(context.Background(), shades.Placement{Pos: vec.Vec2{X: 0, Y: 0}, Tier: 1})
	assert.ErrorIs(t, err, ErrGameOver)

	assert.Contains(t, eventTypes(f.drain(t)), eventbus.TypeGameOver)
}

func TestRowClearKeepsGameGoing(t *testing.T) {
	f := newFixture(t)
	s, err := New(context.Background(), ones(1, 2), f.deps)
	require.NoError(t, err)

	_, err = s.Drop(context.Background(), 0)
	require.NoError(t, err)
	out, err := s.Drop(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Clears)
	assert.False(t, out.State.GameOver)
	assert.Equal(t, "..\n", out.State.Board)
}

func TestInternalFailureIsReported(t *testing.T) {
	f := newFixture(t)
	cfg := ones(4, 2)
	cfg.Options.MaxRounds = 1
	s, err := New(context.Background(), cfg, f.deps)
	require.NoError(t, err)

	_, err = s.Drop(context.Background(), 0)
	require.NoError(t, err)

	// Слияние требует второго раунда, лимит в один раунд его запрещает
	_, err = s.Drop(context.Background(), 0)
	assert.ErrorIs(t, err, shades.ErrIterationCap)
	assert.True(t, shades.IsInternal(err))
	assert.Equal(t, "..\n..\n..\n1.\n", s.Grid().String(), "поле не меняется при ошибке")

	assert.Equal(t, 1.0, f.counter(t, "shades_internal_failures_total"))

	events := f.drain(t)
	require.Contains(t, eventTypes(events), eventbus.TypeInvariantFailed)
	for _, ev := range events {
		if ev.EventType == eventbus.TypeInvariantFailed {
			var payload InvariantFailedEvent
			require.NoError(t, ev.Decode(&payload))
			assert.Contains(t, payload.Error, "round cap")
			assert.Equal(t, 9, ev.Priority)
		}
	}
}

func TestNewRejectsBadDims(t *testing.T) {
	f := newFixture(t)
	_, err := New(context.Background(), Config{Dims: shades.Dims{Rows: 0, Cols: 3, MaxTier: 4}}, f.deps)
	assert.ErrorIs(t, err, shades.ErrInvalidDims)
}

func TestSessionWithoutBus(t *testing.T) {
	deps := Deps{Logger: logging.NewConsoleLogger("session", io.Discard, logging.ERROR)}
	s, err := New(context.Background(), ones(3, 3), deps)
	require.NoError(t, err)

	_, err = s.Drop(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Snapshot().Stats.Drops)
}
