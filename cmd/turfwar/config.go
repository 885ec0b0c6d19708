package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration. Environment variables set the
// defaults and flags override them.
type Config struct {
	Seed     int64  `env:"TURFWAR_SEED"`
	Tuning   string `env:"TURFWAR_TUNING"`
	Script   string `env:"TURFWAR_SCRIPT"`
	LogFile  string `env:"TURFWAR_LOG"`
	LogLevel string `env:"TURFWAR_LOG_LEVEL" envDefault:"info"`
	Plain    bool   `env:"TURFWAR_PLAIN"`
	Trace    bool   `env:"TURFWAR_TRACE"`
	Paused   bool   `env:"TURFWAR_PAUSED"`

	Version bool
}

// parseConfig loads env defaults into a Config, then applies flags from
// args. A positional argument names the tuning directory.
func parseConfig(args []string, stderr io.Writer) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("turfwar", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for reproducible runs (0 = pick one)")
	fs.StringVar(&cfg.Tuning, "tuning", cfg.Tuning, "directory of Lua tuning files (default: built-in town)")
	fs.StringVar(&cfg.Script, "script", cfg.Script, "play commands from a file, echoing each one")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "write structured logs to this file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&cfg.Plain, "plain", cfg.Plain, "use the line-based console even on a terminal")
	fs.BoolVar(&cfg.Trace, "trace", cfg.Trace, "print engine events after each command")
	fs.BoolVar(&cfg.Paused, "paused", cfg.Paused, "start the TUI clock paused")
	fs.BoolVar(&cfg.Version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		cfg.Tuning = rest[0]
	default:
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(rest[1:], " "))
	}
	if _, err := cfg.level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// logger builds the process logger. Without a log file everything is
// discarded, since stdout belongs to the game.
func (c Config) logger() (*slog.Logger, func() error, error) {
	if c.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	lvl, err := c.level()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})), f.Close, nil
}
