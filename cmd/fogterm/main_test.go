package main

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Sensor-Fog/internal/config"
)

func TestOpenStore_FallsBackToDemoScenario(t *testing.T) {
	var cfg config.Config
	store := openStore(context.Background(), &cfg, zerolog.Nop())
	if store.Len() == 0 {
		t.Fatal("an empty config should play the demo map")
	}
	if len(cfg.Scenario.Units) != store.Len() {
		t.Fatalf("resolved scenario should be written back: %d units vs %d in store",
			len(cfg.Scenario.Units), store.Len())
	}
}

func TestOpenStore_FeedStartsEmpty(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Config{Feed: config.FeedConfig{URL: "ws://127.0.0.1:1/none"}}
	store := openStore(ctx, &cfg, zerolog.Nop())
	if store.Len() != 0 {
		t.Fatalf("a feed-backed store starts empty, got %d units", store.Len())
	}
}
