package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Domenick1991/airtrips/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Name        string `yaml:"name"`
	SSLMode     string `yaml:"ssl_mode"`
	AutoMigrate bool   `yaml:"auto_migrate"`
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
	Brokers           []string `yaml:"brokers"`
	ReservationsTopic string   `yaml:"reservations_topic"`
	GroupID           string   `yaml:"group_id"`
}

type BookingConfig struct {
	MaxFlightBookings     int `yaml:"max_flight_bookings"`
	MaxRetries            int `yaml:"max_retries"`
	RetryBaseDelayMS      int `yaml:"retry_base_delay_ms"`
	OperationTimeoutMS    int `yaml:"operation_timeout_ms"`
	LockTimeoutMS         int `yaml:"lock_timeout_ms"`
	SearchLimit           int `yaml:"search_limit"`
	SearchCacheTTLSeconds int `yaml:"search_cache_ttl_seconds"`
}

func (b BookingConfig) RetryBaseDelay() time.Duration {
	return time.Duration(b.RetryBaseDelayMS) * time.Millisecond
}

func (b BookingConfig) OperationTimeout() time.Duration {
	return time.Duration(b.OperationTimeoutMS) * time.Millisecond
}

func (b BookingConfig) LockTimeout() time.Duration {
	return time.Duration(b.LockTimeoutMS) * time.Millisecond
}

func (b BookingConfig) SearchCacheTTL() time.Duration {
	return time.Duration(b.SearchCacheTTLSeconds) * time.Second
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Kafka.ReservationsTopic == "" {
		c.Kafka.ReservationsTopic = "reservations"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "airtrips-worker"
	}
	if c.Booking.MaxFlightBookings == 0 {
		c.Booking.MaxFlightBookings = 3
	}
	if c.Booking.MaxRetries == 0 {
		c.Booking.MaxRetries = 5
	}
	if c.Booking.RetryBaseDelayMS == 0 {
		c.Booking.RetryBaseDelayMS = 20
	}
	if c.Booking.OperationTimeoutMS == 0 {
		c.Booking.OperationTimeoutMS = 5000
	}
	if c.Booking.LockTimeoutMS == 0 {
		c.Booking.LockTimeoutMS = 2000
	}
	if c.Booking.SearchLimit == 0 {
		c.Booking.SearchLimit = 99
	}
	if c.Booking.SearchCacheTTLSeconds == 0 {
		c.Booking.SearchCacheTTLSeconds = 60
	}
	if c.Auth.TokenTTLMinutes == 0 {
		c.Auth.TokenTTLMinutes = 60
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.Booking.MaxFlightBookings < 1 || c.Booking.MaxFlightBookings > domain.MaxFlightBookings {
		return fmt.Errorf("booking.max_flight_bookings must be between 1 and %d, got %d", domain.MaxFlightBookings, c.Booking.MaxFlightBookings)
	}
	if c.Booking.SearchLimit < 1 || c.Booking.SearchLimit > domain.MaxSearchResults {
		return fmt.Errorf("booking.search_limit must be between 1 and %d, got %d", domain.MaxSearchResults, c.Booking.SearchLimit)
	}
	if c.Booking.MaxRetries < 0 {
		return fmt.Errorf("booking.max_retries must not be negative, got %d", c.Booking.MaxRetries)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	return nil
}
