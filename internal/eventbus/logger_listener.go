package eventbus

import (
	"context"

	"github.com/annel0/shades/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог компонента.
// Функция неблокирующая.
func StartLoggingListener(bus EventBus, logger *logging.Logger) (Subscription, error) {
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		level := logging.DEBUG
		if ev.EventType == TypeInvariantFailed {
			level = logging.ERROR
		}
		if !logger.Enabled(level) {
			return
		}
		if level == logging.ERROR {
			logger.Error("[EventBus] %s %s session=%s size=%dB", ev.ID, ev.EventType, ev.CorrelationID, len(ev.Payload))
			return
		}
		logger.Debug("[EventBus] %s %s session=%s prio=%d size=%dB", ev.ID, ev.EventType, ev.CorrelationID, ev.Priority, len(ev.Payload))
	})
	if err != nil {
		return nil, err
	}
	logger.Info("🪵 LoggingListener: подписка на все события активирована")
	return sub, nil
}
