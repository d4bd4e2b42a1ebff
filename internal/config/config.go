package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/annel0/shades/internal/shades"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Server    ServerConfig    `yaml:"server"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// EngineConfig описывает размеры поля и режим стабилизации.
type EngineConfig struct {
	Rows             int  `yaml:"rows"`
	Cols             int  `yaml:"cols"`
	MaxTier          int  `yaml:"max_tier"`
	StrictInvariants bool `yaml:"strict_invariants"`
	MaxRounds        int  `yaml:"max_rounds"`
	SpawnMaxTier     int  `yaml:"spawn_max_tier"`
}

type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

type EventBusConfig struct {
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
	Buffer    int    `yaml:"buffer"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type LoggingConfig struct {
	Component    string `yaml:"component"`
	ConsoleLevel string `yaml:"console_level"`
	FileLevel    string `yaml:"file_level"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Rows:             shades.DefaultRows,
			Cols:             shades.DefaultCols,
			MaxTier:          int(shades.DefaultMaxTier),
			StrictInvariants: true,
			SpawnMaxTier:     2,
		},
		EventBus: EventBusConfig{
			Stream:    "SHADES",
			Retention: 24,
			Buffer:    1024,
		},
		Telemetry: TelemetryConfig{ServiceName: "shades"},
		Logging: LoggingConfig{
			Component:    "server",
			ConsoleLevel: "INFO",
			FileLevel:    "DEBUG",
		},
	}
}

// Dims переводит настройки в размеры поля движка
func (e EngineConfig) Dims() shades.Dims {
	return shades.Dims{Rows: e.Rows, Cols: e.Cols, MaxTier: shades.Tier(e.MaxTier)}
}

// Options переводит настройки в параметры стабилизации
func (e EngineConfig) Options() shades.Options {
	return shades.Options{StrictInvariants: e.StrictInvariants, MaxRounds: e.MaxRounds}
}

// SpawnTier возвращает максимальный уровень новой плитки, не выше MaxTier
func (e EngineConfig) SpawnTier() shades.Tier {
	if e.SpawnMaxTier <= 0 || e.SpawnMaxTier > e.MaxTier {
		return shades.Tier(e.MaxTier)
	}
	return shades.Tier(e.SpawnMaxTier)
}

// Validate проверяет размеры поля
func (e EngineConfig) Validate() error {
	if e.MaxTier < 1 || e.MaxTier > int(shades.MaxTierLimit) {
		return fmt.Errorf("%w: max_tier %d", shades.ErrInvalidDims, e.MaxTier)
	}
	if e.MaxRounds < 0 {
		return fmt.Errorf("%w: max_rounds %d", shades.ErrInvalidDims, e.MaxRounds)
	}
	return e.Dims().Validate()
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "SHADES_REST_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "SHADES_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV SHADES_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SHADES_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Engine.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault как Load, но без файла возвращает Default()
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return Default(), nil
	}
	return cfg, nil
}
