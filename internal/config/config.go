package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Redis          RedisConfig          `toml:"redis"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	CatalogService CatalogServiceConfig `toml:"catalog_service"`
	Holds          HoldsConfig          `toml:"holds"`
	Slots          SlotsConfig          `toml:"slots"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // seconds
	WriteTimeout    int `toml:"write_timeout"`    // seconds
	IdleTimeout     int `toml:"idle_timeout"`     // seconds
	ShutdownTimeout int `toml:"shutdown_timeout"` // seconds
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // seconds
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig настройки кэша доступности.
// Пустой адрес выключает кэш - сервис работает напрямую с БД.
type RedisConfig struct {
	Address         string `toml:"address"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// CatalogServiceConfig настройки клиента CatalogService
type CatalogServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // seconds
}

// HoldsConfig настройки холдов
type HoldsConfig struct {
	TTLMinutes           int `toml:"ttl_minutes"`
	SweepIntervalMinutes int `toml:"sweep_interval_minutes"` // 0 выключает фоновую уборку
}

// SlotsConfig настройки генерации слотов
type SlotsConfig struct {
	StepMinutes      int `toml:"step_minutes"`
	MinNoticeMinutes int `toml:"min_notice_minutes"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("server.http_port must be positive")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Holds.TTLMinutes <= 0 {
		return fmt.Errorf("holds.ttl_minutes must be positive")
	}
	if c.Slots.StepMinutes < domain.MinSlotStepMinutes || c.Slots.StepMinutes > domain.MaxSlotStepMinutes {
		return fmt.Errorf("slots.step_minutes must be between %d and %d",
			domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}
	if c.Slots.MinNoticeMinutes < 0 {
		c.Slots.MinNoticeMinutes = domain.DefaultMinBookingNoticeMin
	}
	return nil
}
