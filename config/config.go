package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Port            string        `mapstructure:"PORT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	BacklogCapacity int           `mapstructure:"BACKLOG_CAPACITY"`
	SendQueueSize   int           `mapstructure:"SEND_QUEUE_SIZE"`
	MaxMessageSize  int64         `mapstructure:"MAX_MESSAGE_SIZE"`
	StaticDir       string        `mapstructure:"STATIC_DIR"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

func Default() Config {
	return Config{
		Port:            "8080",
		LogLevel:        "info",
		BacklogCapacity: 500,
		SendQueueSize:   256,
		MaxMessageSize:  4096,
		StaticDir:       "public",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}
	return FromEnv(os.Environ())
}

// FromEnv decodes KEY=VALUE pairs over the defaults. Keys that are not
// config fields are ignored.
func FromEnv(environ []string) (Config, error) {
	values := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		values[k] = v
	}

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, errors.Wrap(err, "config decoder")
	}
	if err := dec.Decode(values); err != nil {
		return Config{}, errors.Wrapf(ErrInvalid, "decode environment: %v", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Port == "":
		return errors.Wrap(ErrInvalid, "PORT is empty")
	case c.BacklogCapacity <= 0:
		return errors.Wrapf(ErrInvalid, "BACKLOG_CAPACITY must be positive, got %d", c.BacklogCapacity)
	case c.SendQueueSize <= 0:
		return errors.Wrapf(ErrInvalid, "SEND_QUEUE_SIZE must be positive, got %d", c.SendQueueSize)
	case c.MaxMessageSize <= 0:
		return errors.Wrapf(ErrInvalid, "MAX_MESSAGE_SIZE must be positive, got %d", c.MaxMessageSize)
	case c.ShutdownTimeout <= 0:
		return errors.Wrapf(ErrInvalid, "SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
