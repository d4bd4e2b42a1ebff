package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annel0/shades/internal/logging"
	"github.com/annel0/shades/internal/middleware"
	"github.com/annel0/shades/internal/session"
	"github.com/annel0/shades/internal/shades"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RestServer представляет REST API сервер
type RestServer struct {
	router   *gin.Engine
	server   *http.Server
	sessions *session.Manager
	engine   shades.Options
	maxTier  shades.Tier
	metrics  *ServerMetrics
	logger   *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port     string            // адрес для запуска сервера, например ":8088"
	Sessions *session.Manager  // менеджер игровых сессий
	Engine   shades.Options    // режим стабилизации для /api/resolve
	MaxTier  shades.Tier       // максимальный уровень по умолчанию для /api/resolve
	Registry *prometheus.Registry
	Logger   *logging.Logger
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.MaxTier == 0 {
		config.MaxTier = shades.DefaultMaxTier
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	if config.Logger == nil {
		config.Logger = logging.GetServerLogger()
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("shades_api"))

	loggerMw := middleware.NewRequestLogger(config.Logger)
	router.Use(loggerMw.Handler())

	promMw := middleware.NewPrometheusMiddleware("shades_api", config.Registry)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Registry)

	rs := &RestServer{
		router:   router,
		sessions: config.Sessions,
		engine:   config.Engine,
		maxTier:  config.MaxTier,
		metrics:  NewServerMetrics(),
		logger:   config.Logger,
	}
	rs.server = &http.Server{
		Addr:              config.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	rs.setupRoutes()
	return rs
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.GET("/health", rs.handleHealth)

	api := rs.router.Group("/api")
	api.POST("/resolve", rs.handleResolve)

	sessions := api.Group("/sessions")
	{
		sessions.POST("", rs.handleCreateSession)
		sessions.GET("", rs.handleListSessions)
		sessions.GET("/:id", rs.handleGetSession)
		sessions.DELETE("/:id", rs.handleDeleteSession)
		sessions.POST("/:id/drop", rs.handleDrop)
		sessions.POST("/:id/lock", rs.handleLock)
	}
}

// Handler возвращает http.Handler (для тестов и встраивания)
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	data := gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
		"host":   rs.metrics.Collect(),
	}
	if rs.sessions != nil {
		data["sessions"] = rs.sessions.Count()
	}
	c.JSON(http.StatusOK, data)
}

// writeError переводит ошибку движка или сессии в HTTP статус
func (rs *RestServer) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrColumnFull), errors.Is(err, session.ErrGameOver):
		status = http.StatusConflict
	case shades.IsPrecondition(err):
		status = http.StatusBadRequest
	}

	resp := GenericResponse{Success: false, Message: err.Error()}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		var invErr *shades.InvariantError
		if errors.As(err, &invErr) {
			resp.Data = gin.H{"violation": invErr.Violation, "board": invErr.Grid.String()}
		}
	}
	c.JSON(status, resp)
}

// Start запускает REST сервер и блокируется до Stop
func (rs *RestServer) Start() error {
	rs.logger.Info("🌐 REST API слушает %s", rs.server.Addr)
	if err := rs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop завершает сервер, дожидаясь активных запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.server.Shutdown(ctx)
}
