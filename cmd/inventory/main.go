package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"Inventory/internal/config"
	"Inventory/internal/inventory"
	"Inventory/pkg/kit"
)

const service = "inventory"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := kit.NewLogger(service, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("config loaded", zap.Stringer("config", cfg))

	ctx := context.Background()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var base inventory.Store = inventory.NewMemStore()
	if cfg.Store.Seed {
		base = inventory.NewStore()
	}

	store, err := inventory.NewInstrumentedStore(ctx, base, reg)
	if err != nil {
		log.Fatal("init store metrics failed", zap.Error(err))
	}

	assets, err := inventory.NewAssets(cfg.Static.Dir)
	if err != nil {
		log.Fatal("init static assets failed", zap.Error(err))
	}

	s := &inventory.Server{
		Store:  store,
		Assets: assets,
		Log:    log,
	}

	h := inventory.NewHandler(s, inventory.HTTPDeps{
		Log:                log,
		Service:            service,
		Registry:           reg,
		MetricsEnabled:     cfg.Metrics.Enabled,
		MetricsToken:       cfg.Metrics.Token,
		Workers:            cfg.Pool.Workers,
		Backlog:            cfg.Pool.Backlog,
		BacklogTimeout:     cfg.Pool.BacklogTimeout,
		MutationsPerMinute: cfg.RateLimit.MutationsPerMinute,
	})

	opts := kit.ServerOpts{
		Addr:              cfg.Addr(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
	}
	if err := kit.RunHTTPServer(ctx, opts, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
