// Package cmd provides the CLI commands for datapoint-pricing.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"datapoint-pricing/core/output"
	"datapoint-pricing/core/pricing"
	"datapoint-pricing/core/ui"
	"datapoint-pricing/internal/config"
	"datapoint-pricing/internal/logging"
)

// version is overridden at build time with -ldflags "-X ...cmd.version=..."
var version = "0.1.0"

var (
	cfgFile     string
	verbose     bool
	catalogPath string
	modelName   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "datapoint-pricing",
	Short: "Price monthly data point usage across subscription tiers",
	Long: `datapoint-pricing computes the monthly price of a data point volume
under each subscription tier and recommends the cheapest one.

Examples:
  datapoint-pricing tiers
  datapoint-pricing quote 1.5m
  datapoint-pricing quote --format json 5000000
  datapoint-pricing compare 250k
  datapoint-pricing interactive
  datapoint-pricing serve --addr :8080`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/"+config.FileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "HCL tier catalog (default is the built-in tiers)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "pricing model: linear or stepped (default from config)")

	// Add subcommands
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Flags win over the file
	if catalogPath != "" {
		cfg.Pricing.CatalogPath = catalogPath
	}
	if modelName != "" {
		cfg.Pricing.Model = pricing.ModelKind(modelName)
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// newWriter returns a UI writer on cmd's output honoring --verbose and the
// configured color setting
func newWriter(cmd *cobra.Command) *ui.Writer {
	w := ui.NewWriter(cmd.OutOrStdout(), !config.Get().Output.Color)
	if verbose {
		w.SetVerbosity(2)
	}
	return w
}

// addFormatFlag registers --format and --no-color on cmd
func addFormatFlag(cmd *cobra.Command, format *string, noColor *bool) {
	cmd.Flags().StringVarP(format, "format", "f", "", "output format (cli, json, yaml, markdown; default from config)")
	cmd.Flags().BoolVar(noColor, "no-color", false, "disable colored output")
}

// render writes report with the requested or configured formatter
func render(cmd *cobra.Command, report *output.Report, format string, noColor bool) error {
	cfg := config.Get()
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	formatter, err := output.NewFormatter(f, output.Options{NoColor: noColor || !cfg.Output.Color})
	if err != nil {
		return err
	}
	report.Metadata = output.NewMetadata(version)
	return formatter.Render(cmd.OutOrStdout(), report)
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "datapoint-pricing version %s\n", version)
	},
}
