package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/shades/internal/api"
	"github.com/annel0/shades/internal/config"
	"github.com/annel0/shades/internal/eventbus"
	"github.com/annel0/shades/internal/logging"
	"github.com/annel0/shades/internal/metrics"
	"github.com/annel0/shades/internal/observability"
	"github.com/annel0/shades/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (или SHADES_CONFIG)")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	consoleLevel, err := logging.ParseLevel(cfg.Logging.ConsoleLevel)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	fileLevel, err := logging.ParseLevel(cfg.Logging.FileLevel)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	if err := logging.InitDefaultLogger(cfg.Logging.Component, consoleLevel, fileLevel); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	if err := run(cfg); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logging.Info("🎮 Запуск Shades сервера (поле %dx%d, оттенков %d)...", cfg.Engine.Cols, cfg.Engine.Rows, cfg.Engine.MaxTier)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === ТЕЛЕМЕТРИЯ ===
	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName, logging.GetServerLogger())
		if err != nil {
			return fmt.Errorf("инициализация OpenTelemetry: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logging.Warn("⚠️ Ошибка остановки OpenTelemetry: %v", err)
			}
		}()
	}

	// === МЕТРИКИ ===
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	engineMetrics := metrics.NewEngineMetrics(reg)

	// === ШИНА СОБЫТИЙ ===
	bus, err := newEventBus(cfg.EventBus)
	if err != nil {
		return err
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Warn("⚠️ Ошибка закрытия шины событий: %v", err)
		}
	}()

	busLogger := logging.GetEventBusLogger()
	if _, err := eventbus.StartLoggingListener(bus, busLogger); err != nil {
		return fmt.Errorf("подписка логгера событий: %w", err)
	}
	exporter := eventbus.NewMetricsExporter(bus, reg)
	exporter.Start()
	defer exporter.Stop()

	// === СЕССИИ И REST API ===
	sessions := session.NewManager(session.Config{
		Dims:         cfg.Engine.Dims(),
		Options:      cfg.Engine.Options(),
		SpawnMaxTier: cfg.Engine.SpawnTier(),
	}, session.Deps{
		Bus:     bus,
		Metrics: engineMetrics,
		Logger:  logging.GetSessionLogger(),
	})

	restPort := cfg.Server.GetRESTPort()
	rest := api.NewRestServer(api.Config{
		Port:     fmt.Sprintf(":%d", restPort),
		Sessions: sessions,
		Engine:   cfg.Engine.Options(),
		MaxTier:  cfg.Engine.Dims().MaxTier,
		Registry: reg,
		Logger:   logging.GetServerLogger(),
	})

	metricsPort := cfg.Server.GetMetricsPort()
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", metricsPort),
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() { errCh <- rest.Start() }()
	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу :%d", metricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("prometheus HTTP сервер: %w", err)
		}
	}()

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   🌐 REST API: http://localhost:%d", restPort)
	logging.Info("   ❤️  Health check: http://localhost:%d/health", restPort)
	logging.Info("💡 curl -X POST http://localhost:%d/api/sessions", restPort)

	var runErr error
	select {
	case <-ctx.Done():
		logging.Info("📡 Получен сигнал завершения, останавливаемся...")
	case runErr = <-errCh:
	}

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := rest.Stop(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки Prometheus сервера: %v", err)
	}

	if runErr == nil {
		logging.Info("👋 Сервер успешно остановлен")
	}
	return runErr
}

// newEventBus выбирает JetStream, если задан URL, иначе шину в памяти
func newEventBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		logging.Info("🚌 Шина событий: в памяти (буфер %d)", cfg.Buffer)
		return eventbus.NewMemoryBus(cfg.Buffer), nil
	}

	retention := time.Duration(cfg.Retention) * time.Hour
	bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, retention)
	if err != nil {
		return nil, fmt.Errorf("подключение к JetStream %s: %w", cfg.URL, err)
	}
	logging.Info("🚌 Шина событий: JetStream %s, стрим %s", cfg.URL, cfg.Stream)
	return bus, nil
}
