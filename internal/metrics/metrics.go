// Package metrics описывает Prometheus-метрики движка и сессий.
package metrics

import (
	"errors"
	"time"

	"github.com/annel0/shades/internal/shades"
	"github.com/prometheus/client_golang/prometheus"
)

// Причины отклонения хода (label reason)
const (
	ReasonOutOfRange = "out_of_range"
	ReasonTier       = "invalid_tier"
	ReasonOccupied   = "occupied"
	ReasonColumnFull = "column_full"
	ReasonGameOver   = "game_over"
	ReasonMalformed  = "malformed"
	ReasonOther      = "other"
)

// EngineMetrics — счётчики ходов и стабилизации.
type EngineMetrics struct {
	locks            prometheus.Counter
	merges           prometheus.Counter
	clears           prometheus.Counter
	rejected         *prometheus.CounterVec
	internalFailures prometheus.Counter
	rounds           prometheus.Histogram
	duration         prometheus.Histogram
	activeSessions   prometheus.Gauge
}

// NewEngineMetrics создаёт метрики и регистрирует их в reg.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		locks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shades",
			Name:      "locks_total",
			Help:      "Принятые ходы (зафиксированные плитки).",
		}),
		merges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shades",
			Name:      "merges_total",
			Help:      "Слияния пар одинаковых плиток.",
		}),
		clears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shades",
			Name:      "clears_total",
			Help:      "Очищенные однотонные ряды.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shades",
			Name:      "rejected_total",
			Help:      "Отклонённые ходы по причинам.",
		}, []string{"reason"}),
		internalFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shades",
			Name:      "internal_failures_total",
			Help:      "Внутренние ошибки движка (лимит раундов, нарушение инвариантов).",
		}),
		rounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shades",
			Name:      "resolve_rounds",
			Help:      "Число раундов стабилизации на ход.",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12, 16, 24, 32},
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shades",
			Name:      "resolve_duration_seconds",
			Help:      "Длительность стабилизации.",
			Buckets:   prometheus.ExponentialBuckets(0.000005, 4, 10),
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shades",
			Name:      "active_sessions",
			Help:      "Открытые игровые сессии.",
		}),
	}

	reg.MustRegister(m.locks, m.merges, m.clears, m.rejected, m.internalFailures,
		m.rounds, m.duration, m.activeSessions)
	return m
}

// ObserveResolve учитывает успешную стабилизацию после хода
func (m *EngineMetrics) ObserveResolve(res shades.Result, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.locks.Inc()
	m.merges.Add(float64(res.Merges))
	m.clears.Add(float64(res.Clears))
	m.rounds.Observe(float64(res.Rounds))
	m.duration.Observe(elapsed.Seconds())
}

// ObserveError учитывает неудачный ход
func (m *EngineMetrics) ObserveError(err error) {
	if m == nil || err == nil {
		return
	}
	if shades.IsInternal(err) {
		m.internalFailures.Inc()
		return
	}
	m.Reject(RejectReason(err))
}

// Reject учитывает отклонённый ход с причиной reason
func (m *EngineMetrics) Reject(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

// SessionOpened / SessionClosed поддерживают gauge активных сессий
func (m *EngineMetrics) SessionOpened() {
	if m != nil {
		m.activeSessions.Inc()
	}
}

func (m *EngineMetrics) SessionClosed() {
	if m != nil {
		m.activeSessions.Dec()
	}
}

// RejectReason сопоставляет ошибку предусловия с label reason
func RejectReason(err error) string {
	switch {
	case errors.Is(err, shades.ErrOutOfRange):
		return ReasonOutOfRange
	case errors.Is(err, shades.ErrInvalidTier):
		return ReasonTier
	case errors.Is(err, shades.ErrOccupied):
		return ReasonOccupied
	case errors.Is(err, shades.ErrMalformed), errors.Is(err, shades.ErrInvalidDims):
		return ReasonMalformed
	default:
		return ReasonOther
	}
}
