package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"datapoint-pricing/internal/config"
)

// run executes the root command with a fresh flag state and a config path
// inside a temporary directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile, verbose, catalogPath, modelName = "", false, "", ""
	quoteFormat, quoteNoColor, quoteCompare = "", false, false
	compareFormat, compareNoColor = "", false
	tiersFormat, tiersNoColor = "", false
	serveAddr, configForce = "", false
	t.Cleanup(func() { config.Set(config.Default()) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func tempConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), config.FileName)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--config", tempConfig(t))
	require.NoError(t, err)
	assert.Equal(t, "datapoint-pricing version "+version+"\n", out)
}

func TestQuoteJSON(t *testing.T) {
	out, err := run(t, "quote", "5m", "--format", "json", "--config", tempConfig(t))
	require.NoError(t, err)

	var doc struct {
		Quote struct {
			Usage  int64  `json:"usage"`
			BestID string `json:"best_id"`
		} `json:"quote"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Equal(t, int64(5_000_000), doc.Quote.Usage)
	assert.Equal(t, "enterprise", doc.Quote.BestID)
}

func TestQuoteCLI(t *testing.T) {
	out, err := run(t, "quote", "400,000", "--no-color", "--config", tempConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Quote for 400,000 data points")
	assert.Contains(t, out, "Best value: Starter at $199.00/month")
	assert.NotContains(t, out, "Price trends")
}

func TestQuoteWithCompare(t *testing.T) {
	out, err := run(t, "quote", "1m", "--compare", "--no-color", "--config", tempConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Price trends")
}

func TestQuoteRejectsBadUsage(t *testing.T) {
	_, err := run(t, "quote", "lots", "--config", tempConfig(t))
	assert.Error(t, err)

	_, err = run(t, "quote", "60m", "--config", tempConfig(t))
	assert.Error(t, err)
}

func TestQuoteSteppedModel(t *testing.T) {
	out, err := run(t, "quote", "300000", "--model", "stepped", "--format", "json", "--config", tempConfig(t))
	require.NoError(t, err)

	var doc struct {
		Quote struct {
			Model string `json:"model"`
			Tiers []struct {
				Price string `json:"price"`
			} `json:"tiers"`
		} `json:"quote"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Equal(t, "stepped", doc.Quote.Model)
	assert.Equal(t, "30000", doc.Quote.Tiers[0].Price)
}

func TestCompareMarkdown(t *testing.T) {
	out, err := run(t, "compare", "6m", "--format", "markdown", "--config", tempConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "## Price Trends")
	assert.Contains(t, out, "| **5.0M** |")
}

func TestTiersYAML(t *testing.T) {
	out, err := run(t, "tiers", "--format", "yaml", "--config", tempConfig(t))
	require.NoError(t, err)

	var doc struct {
		Tiers []struct {
			ID string `yaml:"id"`
		} `yaml:"tiers"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc), out)
	require.Len(t, doc.Tiers, 3)
	assert.Equal(t, "professional", doc.Tiers[1].ID)
}

func TestUnknownFormat(t *testing.T) {
	_, err := run(t, "tiers", "--format", "html", "--config", tempConfig(t))
	assert.Error(t, err)
}

func TestConfigInitAndShow(t *testing.T) {
	path := tempConfig(t)

	out, err := run(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = run(t, "config", "init", "--config", path)
	assert.Error(t, err)

	_, err = run(t, "config", "init", "--force", "--config", path)
	assert.NoError(t, err)

	out, err = run(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"tie_break": "first"`)
}

func TestCatalogExportValidateAndUse(t *testing.T) {
	dir := t.TempDir()
	hclPath := filepath.Join(dir, "tiers.hcl")

	_, err := run(t, "catalog", "export", hclPath, "--config", tempConfig(t))
	require.NoError(t, err)

	out, err := run(t, "catalog", "validate", hclPath, "--config", tempConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "3 tiers")
	assert.Contains(t, out, "Most popular: Professional")
	assert.NotContains(t, out, "content hash")

	out, err = run(t, "tiers", "--catalog", hclPath, "--no-color", "--config", tempConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Professional")

	out, err = run(t, "catalog", "validate", hclPath, "--verbose", "--config", tempConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "content hash ")
	assert.Contains(t, out, "starter: ")

	require.NoError(t, os.WriteFile(hclPath, []byte(`tier "x" {}`), 0644))
	_, err = run(t, "catalog", "validate", hclPath, "--config", tempConfig(t))
	assert.Error(t, err)
}

func TestCatalogExportStdout(t *testing.T) {
	out, err := run(t, "catalog", "export", "--config", tempConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, `tier "starter"`)
}
