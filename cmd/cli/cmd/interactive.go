// Package cmd - interactive and serve commands
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"datapoint-pricing/api"
	"datapoint-pricing/internal/config"
	"datapoint-pricing/internal/logging"
	"datapoint-pricing/internal/tui"
)

var serveAddr string

// interactiveCmd launches the TUI calculator.
var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"ui"},
	Short:   "Launch the interactive pricing calculator",
	Long: `Launch an interactive terminal calculator with a usage slider,
a text field and the plan cards.

Key bindings:
  ← / →              Move the slider one step
  Shift+← / Shift+→  Move the slider ten steps (also PgDn / PgUp)
  Home / End         Jump to the minimum / maximum
  e or /             Edit the usage field (Enter, Tab or Esc to finish)
  1 / 2 / 3          Highlight a plan
  c                  Toggle plans / comparison
  q / Ctrl+C         Quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		calc, err := cfg.NewCalculator()
		if err != nil {
			return err
		}

		// Terminal log output would corrupt the screen
		if out := cfg.Logging.Output; out == "" || out == "stdout" || out == "stderr" {
			logCfg := cfg.Logging
			logCfg.Output = "discard"
			if err := logging.Initialize(logCfg); err != nil {
				return err
			}
		}

		p := tea.NewProgram(tui.New(calc), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pricing HTTP API",
	Long: `Serve the pricing HTTP API until interrupted.

Endpoints:
  GET  /health       Liveness and catalog size
  GET  /version      Build and model information
  GET  /tiers        The tier catalog
  GET  /tiers/{id}   One tier
  POST /quote        {"usage": 1500000} → per-tier prices and best tier
  GET  /trends       ?usage=… → comparison chart data
  GET  /metrics      Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		cat, err := cfg.Catalog()
		if err != nil {
			return err
		}
		sel, err := cfg.Selector()
		if err != nil {
			return err
		}
		bounds, err := cfg.Bounds()
		if err != nil {
			return err
		}

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := api.NewServer(version, cat, sel, bounds, api.WithRateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst))
		return server.Run(ctx, addr, cfg.Server.ShutdownTimeout())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}
