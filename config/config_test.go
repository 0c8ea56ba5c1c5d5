package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
		want    func(*Config)
	}{
		{
			name:    "defaults",
			environ: []string{"HOME=/root", "PATH=/bin"},
			want:    func(c *Config) {},
		},
		{
			name: "overrides",
			environ: []string{
				"PORT=3000",
				"LOG_LEVEL=debug",
				"BACKLOG_CAPACITY=50",
				"SEND_QUEUE_SIZE=16",
				"MAX_MESSAGE_SIZE=1024",
				"STATIC_DIR=",
				"SHUTDOWN_TIMEOUT=2s",
			},
			want: func(c *Config) {
				c.Port = "3000"
				c.LogLevel = "debug"
				c.BacklogCapacity = 50
				c.SendQueueSize = 16
				c.MaxMessageSize = 1024
				c.StaticDir = ""
				c.ShutdownTimeout = 2 * time.Second
			},
		},
		{
			name:    "value containing equals",
			environ: []string{"STATIC_DIR=./a=b"},
			want:    func(c *Config) { c.StaticDir = "./a=b" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := Default()
			tt.want(&want)

			got, err := FromEnv(tt.environ)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
	}{
		{name: "non numeric capacity", environ: []string{"BACKLOG_CAPACITY=lots"}},
		{name: "zero capacity", environ: []string{"BACKLOG_CAPACITY=0"}},
		{name: "negative queue", environ: []string{"SEND_QUEUE_SIZE=-1"}},
		{name: "empty port", environ: []string{"PORT="}},
		{name: "bad duration", environ: []string{"SHUTDOWN_TIMEOUT=soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(tt.environ)
			require.Error(t, err)
			assert.Equal(t, ErrInvalid, errors.Cause(err))
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}

	for level, want := range tests {
		assert.Equal(t, want, Config{LogLevel: level}.SlogLevel(), level)
	}
}
