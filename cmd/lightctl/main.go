package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lightctl/internal/alert"
	"lightctl/internal/app"
	"lightctl/internal/config"
)

func main() {
	// Support both -c and --config for config path
	var configPath string
	flag.StringVar(&configPath, "config", defaultConfigPath(), "Path to configuration file")
	flag.StringVar(&configPath, "c", defaultConfigPath(), "Path to configuration file (shorthand)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logging
	setupLogging(cfg.Log.Level, cfg.Log.Colors)
	log.Logger = log.With().Str("run_id", uuid.NewString()).Logger()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build command tree")
	}

	cmd, err := application.Resolve(flag.Args())
	if err != nil {
		fail(application.Notifier(), err)
	}

	ctx := app.SignalContext()
	if err := cmd.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(1)
		}
		fail(application.Notifier(), err)
	}
}

// fail is the last line of defense: the error is printed, traced, and
// forwarded to the external alert channel before exiting non-zero.
func fail(notifier *alert.Notifier, err error) {
	fmt.Fprintln(os.Stderr, err)
	fmt.Fprintf(os.Stderr, "%s\n", debug.Stack())
	log.Error().Err(err).Msg("Command failed")
	notifier.Notify(err.Error())
	os.Exit(1)
}

func defaultConfigPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.config/lightctl/config.yaml"
	}
	return "config.yaml"
}

func setupLogging(level string, colors bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !colors,
	})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
