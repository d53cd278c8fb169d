package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/configparser"
)

// Flags
var (
	modeFlag = flag.String("mode", "", "application mode: rescue-service | standalone")
)

// Errors
var (
	ErrModeNotProvided = errors.New("mode flag not provided")
	ErrInvalidMode     = errors.New("invalid mode")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode types.ServiceMode

		Log       LogConfig
		Server    ServerConfig
		Database  DatabaseConfig
		RabbitMQ  RabbitMQConfig
		Redis     RedisConfig
		Auth      Auth
		Rescue    RescueConfig
		Stream    StreamConfig
		RateLimit RateLimitConfig
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"INFO"`
	}

	ServerConfig struct {
		Port          string        `env:"SERVER_PORT" default:"3000"`
		ReadTimeout   time.Duration `env:"SERVER_READ_TIMEOUT" default:"10s"`
		IdleTimeout   time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
		StopTimeout   time.Duration `env:"SERVER_STOP_TIMEOUT" default:"5s"`
		SwaggerEnable bool          `env:"SERVER_SWAGGER_ENABLE" default:"true"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"rescue_user"`
		Password string `env:"DATABASE_PASSWORD" default:"rescue_pass"`
		Database string `env:"DATABASE_DATABASE" default:"rescue_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`         // max open connections
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`          // connections kept in pool
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"` // connection lifetime
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`  // idle time before close
		Migrate         bool          `env:"DATABASE_MIGRATE" default:"true"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	RedisConfig struct {
		Addr     string `env:"REDIS_ADDR" default:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD" default:""`
		DB       int    `env:"REDIS_DB" default:"0"`
	}

	Auth struct {
		AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"15m"`
		JWTSecret      string        `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
		TeamCacheSize  int           `env:"AUTH_TEAM_CACHE_SIZE" default:"10000"`
		TeamCacheTTL   time.Duration `env:"AUTH_TEAM_CACHE_TTL" default:"1m"`
	}

	RescueConfig struct {
		DefaultLimit     int           `env:"RESCUE_DEFAULT_LIMIT" default:"500"`
		MaxLimit         int           `env:"RESCUE_MAX_LIMIT" default:"1000"`
		ThrottleInterval time.Duration `env:"RESCUE_THROTTLE_INTERVAL" default:"5s"`
		ChatMaxLength    int           `env:"RESCUE_CHAT_MAX_LENGTH" default:"2000"`
		HotspotPrecision float64       `env:"RESCUE_HOTSPOT_PRECISION" default:"0.01"`
		GridCellSize     float64       `env:"RESCUE_GRID_CELL_SIZE" default:"0.5"`
		// StandaloneTeams seeds the in-memory team directory, "team:user,user;team:user".
		StandaloneTeams string `env:"RESCUE_STANDALONE_TEAMS" default:""`
	}

	StreamConfig struct {
		SubscriberBuffer int           `env:"STREAM_SUBSCRIBER_BUFFER" default:"64"`
		KeepAlive        time.Duration `env:"STREAM_KEEP_ALIVE" default:"15s"`
		ClientRetry      time.Duration `env:"STREAM_CLIENT_RETRY" default:"3s"`
		SeqWindow        int           `env:"STREAM_SEQ_WINDOW" default:"10000"`
	}

	RateLimitConfig struct {
		RPS   int           `env:"RATE_LIMIT_RPS" default:"20"`
		Burst int           `env:"RATE_LIMIT_BURST" default:"40"`
		TTL   time.Duration `env:"RATE_LIMIT_TTL" default:"3m"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c DatabaseConfig) GetMaxConns() int32                { return c.MaxConns }
func (c DatabaseConfig) GetMinConns() int32                { return c.MinConns }
func (c DatabaseConfig) GetMaxConnLifetime() time.Duration { return c.MaxConnLifetime }
func (c DatabaseConfig) GetMaxConnIdleTime() time.Duration { return c.MaxConnIdleTime }

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	// Parsing flags
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	return cfg, nil
}

func parseFlags(cfg *Config) error {
	if modeFlag == nil || *modeFlag == "" {
		return ErrModeNotProvided
	}

	cfg.Mode = types.ServiceMode(*modeFlag)
	if !cfg.Mode.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidMode, cfg.Mode)
	}

	return nil
}
