// Package config reads server settings from the environment and the command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/apex/log"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Addr                string
	AllowOrigins        string
	LogLevel            string
	FreePlay            bool
	MatchmakingInterval time.Duration
}

func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowOrigins:        "http://localhost:5173",
		LogLevel:            "info",
		MatchmakingInterval: time.Second,
	}
}

// Load starts from Default, applies CHESS_* environment variables and then
// the flags in args. getenv is usually os.Getenv.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if err := cfg.fromEnv(getenv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", cfg.AllowOrigins, "comma separated CORS origins")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn, error or fatal")
	fs.BoolVar(&cfg.FreePlay, "free-play", cfg.FreePlay, "let either side move regardless of turn")
	fs.DurationVar(&cfg.MatchmakingInterval, "matchmaking-interval", cfg.MatchmakingInterval, "how often queued players are paired")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromOS loads from os.Args and the process environment.
func FromOS() (Config, error) {
	return Load(os.Args[1:], os.Getenv)
}

func (c *Config) fromEnv(getenv func(string) string) error {
	if v := getenv("CHESS_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("CHESS_ALLOW_ORIGINS"); v != "" {
		c.AllowOrigins = v
	}
	if v := getenv("CHESS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("CHESS_FREE_PLAY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: CHESS_FREE_PLAY: %v", ErrInvalidConfig, err)
		}
		c.FreePlay = b
	}
	if v := getenv("CHESS_MATCHMAKING_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: CHESS_MATCHMAKING_INTERVAL: %v", ErrInvalidConfig, err)
		}
		c.MatchmakingInterval = d
	}
	return nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.MatchmakingInterval <= 0 {
		return fmt.Errorf("%w: matchmaking interval must be positive, got %s", ErrInvalidConfig, c.MatchmakingInterval)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}
