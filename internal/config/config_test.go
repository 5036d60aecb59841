package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.PresenceTTL)
	assert.Equal(t, 2*time.Second, cfg.SweepInterval)
	assert.Equal(t, 30*time.Second, cfg.DrainGrace)
	assert.Equal(t, 256, cfg.OutboxSize)
	assert.Equal(t, 50, cfg.MaxRoomSize)
	assert.Equal(t, 5000, cfg.MaxObjects)
	assert.Equal(t, 512*1024, cfg.MaxMessageSize)
	assert.Equal(t, 60.0, cfg.MessagesPerSecond)
	assert.Equal(t, 33*time.Millisecond, cfg.CursorThrottle)
	assert.False(t, cfg.PersistenceEnabled())
	assert.Empty(t, cfg.Origins())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("PRESENCE_TTL", "10s")
	t.Setenv("MAX_ROOM_SIZE", "4")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test| http://b.test ||")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.PresenceTTL)
	assert.Equal(t, 4, cfg.MaxRoomSize)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())
	assert.True(t, cfg.PersistenceEnabled())
}

func TestLoad_RejectsSweepLongerThanTTL(t *testing.T) {
	t.Setenv("PRESENCE_TTL", "1s")
	t.Setenv("SWEEP_INTERVAL", "3s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SWEEP_INTERVAL")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			LogFormat:         "json",
			PresenceTTL:       5 * time.Second,
			SweepInterval:     time.Second,
			DrainGrace:        time.Second,
			OutboxSize:        8,
			MaxMessageSize:    1024,
			MessagesPerSecond: 10,
			BurstSize:         5,
			CursorThrottle:    time.Millisecond,
			JoinTimeout:       time.Second,
			PongWait:          time.Second,
			PersistInterval:   time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero ttl", mutate: func(c *Config) { c.PresenceTTL = 0; c.SweepInterval = 0 }, wantErr: "PRESENCE_TTL"},
		{name: "negative grace", mutate: func(c *Config) { c.DrainGrace = -time.Second }, wantErr: "DRAIN_GRACE"},
		{name: "zero outbox", mutate: func(c *Config) { c.OutboxSize = 0 }, wantErr: "OUTBOX_SIZE"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "LOG_FORMAT"},
		{name: "no rate budget", mutate: func(c *Config) { c.BurstSize = 0 }, wantErr: "BURST_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
