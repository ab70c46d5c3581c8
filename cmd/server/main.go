// Package main - Entry point for the datapoint-pricing API server
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"datapoint-pricing/api"
	"datapoint-pricing/internal/config"
	"datapoint-pricing/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "Config file")
	addr := flag.String("addr", "", "Server address (default from config)")
	catalogPath := flag.String("catalog", "", "HCL tier catalog")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logging.Error("loading config", zap.Error(err))
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *catalogPath != "" {
		cfg.Pricing.CatalogPath = *catalogPath
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.Error("initializing logging", zap.Error(err))
	}
	defer logging.Sync()

	cat, err := cfg.Catalog()
	if err != nil {
		logging.Error("loading catalog", zap.Error(err))
		os.Exit(1)
	}
	sel, err := cfg.Selector()
	if err != nil {
		logging.Error("building selector", zap.Error(err))
		os.Exit(1)
	}
	bounds, err := cfg.Bounds()
	if err != nil {
		logging.Error("reading bounds", zap.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
		<-signalChan
		cancel()
	}()

	logging.Info("starting datapoint-pricing server",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
		logging.Model(string(sel.Model().Kind())),
		zap.Int("tiers", cat.Len()),
	)
	server := api.NewServer(version, cat, sel, bounds, api.WithRateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst))
	if err := server.Run(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout()); err != nil {
		logging.Error("server failed", zap.Error(err))
		os.Exit(1)
	}
}
