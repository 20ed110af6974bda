package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/lightbot/lightbot/internal/config"
	"github.com/lightbot/lightbot/internal/irc"
	"github.com/lightbot/lightbot/internal/logging"
)

// Version information - set at build time via ldflags
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, logLevel string
	var showVersion bool

	flagSet := pflag.NewFlagSet("lightbot", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "./config.yaml", "path to configuration file")
	flagSet.StringVar(&logLevel, "log-level", "", "override the configured log level (trace, debug, info, warn, error)")
	flagSet.BoolVarP(&showVersion, "version", "v", false, "show version information and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Printf("lightbot version %s\n", version)
		fmt.Printf("Built: %s\n", buildDate)
		fmt.Printf("Commit: %s\n", gitCommit)
		return nil
	}

	irc.Version = version
	irc.BuildDate = buildDate
	irc.GitCommit = gitCommit

	if !filepath.IsAbs(configPath) {
		wd, _ := os.Getwd()
		configPath = filepath.Join(wd, configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log := logging.New("lightbot", cfg.LogLevel)

	client, err := irc.NewClient(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create IRC client: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("server", cfg.Address()).Str("version", version).Msg("connecting")
	if err := client.Connect(ctx); err != nil {
		return err
	}

	log.Info().Msg("connected, entering main loop")
	if err := client.Run(ctx); err != nil {
		// Reconnecting is left to whatever supervises the process
		return fmt.Errorf("session ended: %w", err)
	}
	log.Info().Msg("shut down")
	return nil
}
