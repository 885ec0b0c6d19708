// Turfwar plays the faction standing engine from a terminal.
// Usage: turfwar [flags] [tuning_directory]
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/nathoo/turfwar/cli"
	"github.com/nathoo/turfwar/engine"
	"github.com/nathoo/turfwar/engine/state"
	"github.com/nathoo/turfwar/loader"
	"github.com/nathoo/turfwar/session"
	"github.com/nathoo/turfwar/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parseConfig(args, os.Stderr)
	if err != nil {
		return err
	}
	if cfg.Version {
		fmt.Printf("turfwar %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	log, closeLog, err := cfg.logger()
	if err != nil {
		return err
	}
	defer closeLog()

	defs := state.DefaultDefs()
	if cfg.Tuning != "" {
		if defs, err = loader.Load(cfg.Tuning); err != nil {
			return fmt.Errorf("loading tuning: %w", err)
		}
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	log.Info("starting", "version", version, "seed", cfg.Seed, "tuning", cfg.Tuning)

	s := session.New(defs, engine.WithSeed(cfg.Seed), engine.WithLogger(log))

	// Script mode: read the file, force plain, echo commands.
	if cfg.Script != "" {
		f, err := os.Open(cfg.Script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := cli.New(s)
		c.In = f
		c.EchoInput = true
		c.Trace = cfg.Trace
		c.Run()
		return nil
	}

	if cfg.Plain || !isTerminal() {
		c := cli.New(s)
		c.Trace = cfg.Trace
		c.Run()
		return nil
	}

	return tui.Run(s, !cfg.Paused)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
