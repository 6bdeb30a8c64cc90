// Package config loads the server settings from flags and the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// ErrInvalidConfig indicates a setting that cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

const envPrefix = "SANCHESS_"

// flagOutput receives usage text when flag parsing fails.
var flagOutput io.Writer = os.Stderr

type Config struct {
	Addr             string        // listen address, e.g. ":3000"
	AllowOrigins     string        // comma separated CORS origins
	PromotionTimeout time.Duration // how long a websocket client may take to pick a promotion piece
	LogLevel         string
}

func Default() Config {
	return Config{
		Addr:             ":3000",
		AllowOrigins:     "http://localhost:5173",
		PromotionTimeout: 30 * time.Second,
		LogLevel:         "info",
	}
}

var levels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Load reads args (without the program name) on top of the environment,
// which in turn overrides the defaults. getenv is usually os.Getenv.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if v := getenv(envPrefix + "ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv(envPrefix + "ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = v
	}
	if v := getenv(envPrefix + "PROMOTION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %sPROMOTION_TIMEOUT: %v", ErrInvalidConfig, envPrefix, err)
		}
		cfg.PromotionTimeout = d
	}
	if v := getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	fs := flag.NewFlagSet("sanchess", flag.ContinueOnError)
	fs.SetOutput(flagOutput)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Address to listen on")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", cfg.AllowOrigins, "Comma separated list of allowed CORS origins")
	fs.DurationVar(&cfg.PromotionTimeout, "promotion-timeout", cfg.PromotionTimeout, "Time a websocket client has to answer a promotion request")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: trace, debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.PromotionTimeout <= 0 {
		return fmt.Errorf("%w: promotion timeout must be positive, got %s", ErrInvalidConfig, c.PromotionTimeout)
	}
	if _, ok := levels[c.LogLevel]; !ok {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Level is the fiber log level matching LogLevel.
func (c Config) Level() log.Level {
	if l, ok := levels[c.LogLevel]; ok {
		return l
	}
	return log.LevelInfo
}
