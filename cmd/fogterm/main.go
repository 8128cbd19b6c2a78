package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Sensor-Fog/internal/config"
	"github.com/Garsondee/Sensor-Fog/internal/logging"
	"github.com/Garsondee/Sensor-Fog/internal/telemetry"
	"github.com/Garsondee/Sensor-Fog/internal/term"
	"github.com/Garsondee/Sensor-Fog/internal/vision"
)

const frameInterval = 100 * time.Millisecond

func main() {
	var cfgPath string
	var serveAddr string
	var logPath string
	var audio bool
	flag.StringVar(&cfgPath, "config", "", "config file (yaml, json or toml)")
	flag.StringVar(&serveAddr, "serve", "", "also publish unit frames over websocket on this address, e.g. :8090")
	flag.StringVar(&logPath, "log", "fogterm.log", "log file; the terminal is taken by the map")
	flag.BoolVar(&audio, "audio", false, "play a tone when contacts are lost or regained")
	flag.Parse()

	boot := logging.New(os.Stderr, "info")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to open log file")
	}
	defer logFile.Close()
	log := logging.New(logFile, cfg.LogLevel)

	style, err := cfg.Style()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid fog style")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := openStore(ctx, &cfg, log)

	if serveAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/units", telemetry.NewPublisher(store, frameInterval, logging.Component(log, "publisher")))
		srv := &http.Server{Addr: serveAddr, Handler: mux}
		go func() {
			log.Info().Str("addr", serveAddr).Msg("publishing unit frames")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("publisher stopped")
			}
		}()
		defer srv.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create screen")
	}
	if err := screen.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to init screen")
	}
	defer screen.Fini()

	worldW, worldH := cfg.Scenario.Width, cfg.Scenario.Height
	if worldW <= 0 || worldH <= 0 {
		worldW, worldH = 1600, 1000
	}
	viewer := term.NewViewer(screen, store, term.ViewerOptions{
		Profiles:  cfg.Registry(),
		Style:     style,
		Buildings: cfg.Buildings(),
		Occlusion: cfg.Occlusion,
		Phase:     vision.ParseGamePhase(cfg.Phase),
		WorldW:    worldW,
		WorldH:    worldH,
		Logger:    logging.Component(log, "vision"),
	})

	if audio {
		cue := term.NewCue()
		if err := cue.Initialize(); err != nil {
			log.Warn().Err(err).Msg("audio unavailable")
		} else {
			defer cue.Close()
			viewer.OnContact = cue.Contact
		}
	}

	viewer.Run(ctx, frameInterval)
}

// openStore follows the configured feed when one is set and otherwise
// plays the configured scenario, or the demo map when none is given.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) *telemetry.Store {
	if cfg.Feed.URL == "" {
		cfg.Scenario = telemetry.ResolveScenario(cfg.Scenario)
		return telemetry.FromScenario(cfg.Scenario)
	}
	store := telemetry.NewStore()
	feed := telemetry.NewFeed(cfg.Feed.URL, store, logging.Component(log, "feed"))
	go func() {
		if err := feed.Run(ctx); err != nil {
			log.Error().Err(err).Msg("telemetry feed stopped")
		}
	}()
	return store
}
