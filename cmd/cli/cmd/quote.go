// Package cmd - quote, compare and tiers commands
package cmd

import (
	"github.com/spf13/cobra"

	"datapoint-pricing/core/comparison"
	"datapoint-pricing/core/input"
	"datapoint-pricing/core/output"
	"datapoint-pricing/internal/config"
	"datapoint-pricing/internal/logging"
)

var (
	quoteFormat    string
	quoteNoColor   bool
	quoteCompare   bool
	compareFormat  string
	compareNoColor bool
	tiersFormat    string
	tiersNoColor   bool
)

// quoteCmd prices one usage value under every tier
var quoteCmd = &cobra.Command{
	Use:   "quote <usage>",
	Short: "Price a monthly data point volume under every tier",
	Long: `Price a monthly data point volume under every tier and mark the
cheapest one.

Usage accepts separators and k/m suffixes.

Examples:
  datapoint-pricing quote 1500000
  datapoint-pricing quote 1,500,000
  datapoint-pricing quote 1.5m --compare
  datapoint-pricing quote 250k --format markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

// compareCmd shows the comparison charts
var compareCmd = &cobra.Command{
	Use:   "compare [usage]",
	Short: "Compare tier prices at a usage and across usage levels",
	Long: `Show every tier priced at the given usage (default from the
calculator bounds) and a price trend table across fixed usage levels.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompare,
}

// tiersCmd lists the catalog
var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List the pricing tiers",
	Args:  cobra.NoArgs,
	RunE:  runTiers,
}

func init() {
	addFormatFlag(quoteCmd, &quoteFormat, &quoteNoColor)
	quoteCmd.Flags().BoolVarP(&quoteCompare, "compare", "c", false, "include the comparison charts")
	addFormatFlag(compareCmd, &compareFormat, &compareNoColor)
	addFormatFlag(tiersCmd, &tiersFormat, &tiersNoColor)
}

func runQuote(cmd *cobra.Command, args []string) error {
	calc, err := config.Get().NewCalculator()
	if err != nil {
		return err
	}

	usage, err := input.Parse(args[0], calc.Bounds)
	if err != nil {
		return err
	}

	q, err := calc.Selector.Quote(calc.Tiers, usage)
	if err != nil {
		return err
	}
	logging.Debug("quote computed", logging.Usage(usage), logging.Tier(q.BestID))

	report := &output.Report{Quote: q}
	if quoteCompare {
		report.Chart, err = comparison.Build(calc.Selector.Model(), calc.Tiers, usage, q.BestID, nil)
		if err != nil {
			return err
		}
	}
	return render(cmd, report, quoteFormat, quoteNoColor)
}

func runCompare(cmd *cobra.Command, args []string) error {
	calc, err := config.Get().NewCalculator()
	if err != nil {
		return err
	}

	usage := calc.Bounds.Default
	if len(args) > 0 {
		if usage, err = input.Parse(args[0], calc.Bounds); err != nil {
			return err
		}
	}

	best, err := calc.Selector.Best(calc.Tiers, usage)
	if err != nil {
		return err
	}
	chart, err := comparison.Build(calc.Selector.Model(), calc.Tiers, usage, best.ID, nil)
	if err != nil {
		return err
	}
	return render(cmd, &output.Report{Chart: chart}, compareFormat, compareNoColor)
}

func runTiers(cmd *cobra.Command, args []string) error {
	cat, err := config.Get().Catalog()
	if err != nil {
		return err
	}
	return render(cmd, &output.Report{Tiers: cat.Tiers()}, tiersFormat, tiersNoColor)
}
