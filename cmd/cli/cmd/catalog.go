// Package cmd - Tier catalog management
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"datapoint-pricing/core/catalog"
	"datapoint-pricing/core/output"
	"datapoint-pricing/internal/config"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Tier catalog management",
	Long: `Tier catalog management commands.

A catalog is an HCL file of tier blocks:

  tier "starter" {
    name        = "Starter"
    included    = 100000
    base_price  = 49
    rate_per_1k = 0.5
  }

Use --catalog or pricing.catalog_path in the config to price with it.`,
}

var catalogExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the active catalog as HCL",
	Long: `Write the active catalog (built-in or --catalog) as HCL to a file,
or to stdout when no file is given. The output is a starting point for a
custom catalog.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogExport,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check an HCL catalog file",
	Long: `Parse and validate an HCL catalog. Every problem is reported, not
only the first one.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogValidate,
}

func init() {
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	cat, err := config.Get().Catalog()
	if err != nil {
		return err
	}
	src, err := catalog.EncodeHCL(cat)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		_, err = cmd.OutOrStdout().Write(src)
		return err
	}
	if err := os.WriteFile(args[0], src, 0644); err != nil {
		return err
	}
	w := newWriter(cmd)
	w.Success("Wrote %d tiers to %s", cat.Len(), args[0])
	w.Debug("content hash %s", cat.ContentHash())
	return nil
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	w := newWriter(cmd)

	cat, err := catalog.LoadFile(args[0])
	if err != nil {
		w.Error("%s", err)
		return err
	}

	w.Success("%s: %d tiers", args[0], cat.Len())
	t := w.NewTable("ID", "Name", "Base", "Included")
	for _, tier := range cat.Tiers() {
		t.AddRow(tier.ID, tier.Name, output.FormatCurrency(tier.BasePrice), output.FormatCount(tier.IncludedAllowance))
	}
	t.Render()

	if popular, ok := cat.Popular(); ok {
		w.Info("Most popular: %s", popular.Name)
	}
	for _, tier := range cat.Tiers() {
		w.Debug("%s: %d features, %s per 1k", tier.ID, len(tier.Features), output.FormatRate(tier.MarginalRatePer1k))
	}
	w.Debug("content hash %s", cat.ContentHash())
	return nil
}
