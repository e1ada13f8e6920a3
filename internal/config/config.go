package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/aescanero/blockqueue/pkg/domain"
)

// Config holds all configuration for the blockqueue engine
type Config struct {
	// Server configuration
	HTTPPort int    `env:"BLOCKQUEUE_HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Stage file overriding grid and inventory, optional
	StageFile string `env:"STAGE_FILE"`

	// Drive the walker through the stage plan on start
	Autoplay bool `env:"AUTOPLAY" envDefault:"false"`

	Grid     GridConfig
	Turn     TurnConfig
	Watchdog WatchdogConfig
	Redis    RedisConfig
	Timeouts TimeoutConfig
}

// GridConfig holds grid dimensions and geometry
type GridConfig struct {
	Columns     int     `env:"GRID_COLUMNS" envDefault:"4"`
	Rows        int     `env:"GRID_ROWS" envDefault:"4"`
	CellWidth   float64 `env:"GRID_CELL_WIDTH" envDefault:"1"`
	CellSpacing float64 `env:"GRID_CELL_SPACING" envDefault:"0"`
}

// TurnConfig holds turn orchestration settings
type TurnConfig struct {
	SettleInterval time.Duration `env:"TURN_SETTLE_INTERVAL" envDefault:"250ms"`
	Inventory      []string      `env:"INVENTORY" envSeparator:"," envDefault:"forward,forward,left,right"`
	LoopQueueSize  int           `env:"LOOP_QUEUE_SIZE" envDefault:"256"`
}

// WatchdogConfig holds stall detection settings
type WatchdogConfig struct {
	Interval      time.Duration `env:"WATCHDOG_INTERVAL" envDefault:"10s"`
	ActionTimeout time.Duration `env:"WATCHDOG_ACTION_TIMEOUT" envDefault:"30s"`
}

// RedisConfig holds the event mirror connection configuration
type RedisConfig struct {
	MirrorEnabled bool   `env:"REDIS_MIRROR_ENABLED" envDefault:"false"`
	Addr          string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password      string `env:"REDIS_PASS"`
	DB            int    `env:"REDIS_DB" envDefault:"0"`

	StreamPrefix string `env:"REDIS_STREAM_PREFIX" envDefault:"blockqueue:events"`
	StreamMaxLen int64  `env:"REDIS_STREAM_MAXLEN" envDefault:"10000"`
	BufferSize   int    `env:"REDIS_MIRROR_BUFFER" envDefault:"1024"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	ShutdownTimeout time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.Grid.Columns < 1 || c.Grid.Rows < 1 {
		return fmt.Errorf("grid must be at least 1x1, got %dx%d", c.Grid.Columns, c.Grid.Rows)
	}
	if c.Grid.CellWidth <= 0 {
		return fmt.Errorf("cell width must be positive: %v", c.Grid.CellWidth)
	}
	if c.Grid.CellSpacing < 0 {
		return fmt.Errorf("cell spacing must not be negative: %v", c.Grid.CellSpacing)
	}

	if c.Turn.SettleInterval < 0 {
		return fmt.Errorf("settle interval must not be negative: %s", c.Turn.SettleInterval)
	}
	if c.Turn.LoopQueueSize < 1 {
		return fmt.Errorf("loop queue size must be at least 1")
	}
	if _, err := c.Kinds(); err != nil {
		return fmt.Errorf("invalid inventory: %w", err)
	}

	if c.Watchdog.Interval < 0 || c.Watchdog.ActionTimeout < 0 {
		return fmt.Errorf("watchdog durations must not be negative")
	}

	if c.Redis.MirrorEnabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required when the mirror is enabled")
		}
		if c.Redis.StreamMaxLen < 0 {
			return fmt.Errorf("stream max length must not be negative")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Kinds parses the inventory templates
func (c *Config) Kinds() ([]domain.Kind, error) {
	return domain.ParseKinds(c.Turn.Inventory)
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
