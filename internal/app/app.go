// Package app assembles the command resolution tree from the
// configuration tables: device handles, mode presets, scenes and the
// argument commanders, built once at startup and immutable thereafter.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"lightctl/internal/alert"
	"lightctl/internal/command"
	"lightctl/internal/config"
	"lightctl/internal/device"
	"lightctl/internal/mode"
	"lightctl/internal/scene"
)

// App holds the resolution tree and the alert side-channel for one
// invocation.
type App struct {
	cfg      *config.Config
	root     command.Resolver
	notifier *alert.Notifier
}

// New builds the full command tree from the configuration.
func New(cfg *config.Config) (*App, error) {
	bulbs, err := buildBulbs(cfg)
	if err != nil {
		return nil, err
	}

	whites := buildWhiteModes(cfg)
	scenes := buildScenes(cfg, bulbs, whites)

	builder := &treeBuilder{
		cfg:    cfg,
		bulbs:  bulbs,
		whites: whites,
		scenes: scenes,
	}

	return &App{
		cfg:      cfg,
		root:     builder.build(),
		notifier: alert.New(cfg.Alert.Command),
	}, nil
}

// Resolve walks the tree over the CLI tokens.
func (a *App) Resolve(tokens []string) (command.Command, error) {
	return a.root.Get(tokens)
}

// Notifier returns the alert side-channel.
func (a *App) Notifier() *alert.Notifier {
	return a.notifier
}

func buildWhiteModes(cfg *config.Config) map[string]mode.White {
	whites := make(map[string]mode.White, len(cfg.Modes.White))
	for name, preset := range cfg.Modes.White {
		whites[name] = mode.White{Temperature: preset.Temperature, Brightness: preset.Brightness}
	}
	return whites
}

func buildScenes(cfg *config.Config, bulbs []*bulb, whites map[string]mode.White) map[string]*scene.Scene {
	byName := make(map[string]*bulb, len(bulbs))
	for _, b := range bulbs {
		byName[b.name] = b
	}

	scenes := make(map[string]*scene.Scene, len(cfg.Scenes))
	for _, sc := range cfg.Scenes {
		entries := make([]scene.Entry, 0, len(sc.Entries))
		for _, e := range sc.Entries {
			b, ok := byName[e.Device]
			if !ok {
				continue // validated at load time
			}
			var m mode.Mode[device.BrightWarmBulb]
			switch e.Mode {
			case "on":
				m = mode.Power[device.BrightWarmBulb]{On: true}
			case "off":
				m = mode.Power[device.BrightWarmBulb]{On: false}
			default:
				m = whites[e.Mode]
			}
			entries = append(entries, scene.Bind(b.warm, m))
		}
		scenes[sc.Name] = scene.New(sc.Name, entries...)
	}
	return scenes
}

// SignalContext creates a context that is cancelled when SIGINT or SIGTERM is received.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	return ctx
}
