package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers               []string `yaml:"brokers"`
	BookingTopic          string   `yaml:"booking_topic"`
	OrderTopic            string   `yaml:"order_topic"`
	NotificationsTopic    string   `yaml:"notifications_topic"`
	GroupID               string   `yaml:"group_id"`
	HeartbeatSeconds      int      `yaml:"heartbeat_seconds"`
	SessionTimeoutSeconds int      `yaml:"session_timeout_seconds"`
}

type BookingConfig struct {
	AdmissionLockSeconds int `yaml:"admission_lock_seconds"`
}

type CatalogConfig struct {
	WorkshopsCacheTTLSeconds int `yaml:"workshops_cache_ttl_seconds"`
}

type WorkerConfig struct {
	CacheRefreshMinutes int `yaml:"cache_refresh_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
