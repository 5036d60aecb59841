package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// Config: server settings read from the environment, optionally seeded from a .env file
type Config struct {
	Addr string `env:"ADDR,default=:8080"`
	// AllowedOrigins: pipe-separated Origin values accepted on upgrade; empty accepts any
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`
	LogFormat      string `env:"LOG_FORMAT,default=json"`

	PresenceTTL   time.Duration `env:"PRESENCE_TTL,default=5s"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL,default=2s"`
	DrainGrace    time.Duration `env:"DRAIN_GRACE,default=30s"`
	OutboxSize    int           `env:"OUTBOX_SIZE,default=256"`

	MaxRoomSize       int           `env:"MAX_ROOM_SIZE,default=50"`
	MaxObjects        int           `env:"MAX_OBJECTS,default=5000"`
	MaxMessageSize    int           `env:"MAX_MESSAGE_SIZE,default=524288"`
	MaxRooms          int           `env:"MAX_ROOMS,default=1000"`
	MessagesPerSecond float64       `env:"MESSAGES_PER_SECOND,default=60"`
	BurstSize         int           `env:"BURST_SIZE,default=30"`
	CursorThrottle    time.Duration `env:"CURSOR_THROTTLE,default=33ms"`

	JoinTimeout time.Duration `env:"JOIN_TIMEOUT,default=5s"`
	PongWait    time.Duration `env:"PONG_WAIT,default=60s"`

	// RedisAddr: empty disables persistence
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB,default=0"`
	PersistInterval time.Duration `env:"PERSIST_INTERVAL,default=1s"`
}

// Load: .env (if present) then the process environment, validated
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate: rejects settings the hubs cannot run with
func (c Config) Validate() error {
	var errs []error

	positive := map[string]time.Duration{
		"PRESENCE_TTL":     c.PresenceTTL,
		"SWEEP_INTERVAL":   c.SweepInterval,
		"DRAIN_GRACE":      c.DrainGrace,
		"CURSOR_THROTTLE":  c.CursorThrottle,
		"JOIN_TIMEOUT":     c.JoinTimeout,
		"PONG_WAIT":        c.PongWait,
		"PERSIST_INTERVAL": c.PersistInterval,
	}
	for _, name := range lo.Keys(positive) {
		if positive[name] <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, positive[name]))
		}
	}
	if c.SweepInterval > c.PresenceTTL {
		errs = append(errs, fmt.Errorf("SWEEP_INTERVAL %s exceeds PRESENCE_TTL %s", c.SweepInterval, c.PresenceTTL))
	}
	if c.OutboxSize <= 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_SIZE must be positive, got %d", c.OutboxSize))
	}
	if c.MaxMessageSize <= 0 {
		errs = append(errs, fmt.Errorf("MAX_MESSAGE_SIZE must be positive, got %d", c.MaxMessageSize))
	}
	if c.MessagesPerSecond <= 0 || c.BurstSize <= 0 {
		errs = append(errs, fmt.Errorf("MESSAGES_PER_SECOND and BURST_SIZE must be positive"))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// Origins: AllowedOrigins split on '|', blanks dropped
func (c Config) Origins() []string {
	parts := lo.Map(strings.Split(c.AllowedOrigins, "|"), func(s string, _ int) string { return strings.TrimSpace(s) })
	return lo.Compact(parts)
}

// PersistenceEnabled: whether a redis address is configured
func (c Config) PersistenceEnabled() bool {
	return c.RedisAddr != ""
}
