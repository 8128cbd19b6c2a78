package main

import (
	"context"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Sensor-Fog/internal/config"
	"github.com/Garsondee/Sensor-Fog/internal/game"
	"github.com/Garsondee/Sensor-Fog/internal/logging"
	"github.com/Garsondee/Sensor-Fog/internal/telemetry"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "config file (yaml, json or toml)")
	flag.Parse()

	boot := logging.New(os.Stderr, "info")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	log := logging.New(os.Stderr, cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store *telemetry.Store
	if cfg.Feed.URL != "" {
		store = telemetry.NewStore()
		feed := telemetry.NewFeed(cfg.Feed.URL, store, logging.Component(log, "feed"))
		go func() {
			if err := feed.Run(ctx); err != nil {
				log.Error().Err(err).Msg("telemetry feed stopped")
			}
		}()
	} else {
		cfg.Scenario = telemetry.ResolveScenario(cfg.Scenario)
		store = telemetry.FromScenario(cfg.Scenario)
	}

	g, err := game.New(cfg, store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	w, h := g.Size()
	ebiten.SetWindowTitle("Sensor Fog")
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal().Err(err).Msg("game exited")
	}
}
