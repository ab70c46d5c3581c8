package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"datapoint-pricing/core/catalog"
	"datapoint-pricing/core/pricing"
	"datapoint-pricing/core/types"
	"datapoint-pricing/internal/errors"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 10*time.Second, c.Server.ShutdownTimeout())

	b, err := c.Bounds()
	require.NoError(t, err)
	assert.Equal(t, types.ContinuousBounds(), b)

	m, err := c.Model()
	require.NoError(t, err)
	assert.Equal(t, pricing.ModelLinear, m.Kind())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	c := Default()
	c.Pricing.Model = pricing.ModelStepped
	c.Selection.TieBreak = "last"
	c.Server.Addr = ":9090"
	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)

	b, err := loaded.Bounds()
	require.NoError(t, err)
	assert.Equal(t, types.SteppedBounds(), b)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"server":{"addr":":7000"}}`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.Server.Addr)
	assert.Equal(t, 10, c.Server.ShutdownTimeoutSeconds)
	assert.Equal(t, pricing.ModelLinear, c.Pricing.Model)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"server":`), 0644))

	_, err := Load(path)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	c := Default()
	c.Version = "2.0"
	c.Pricing.Currency = "EUR"
	c.Pricing.Model = "tiered"
	c.Selection.TieBreak = "random"
	c.Calculator = &types.Bounds{Min: 10, Max: 5}
	c.Server.ShutdownTimeoutSeconds = -1
	c.Server.RateLimit = -1

	err := c.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	var typed *errors.Error
	require.ErrorAs(t, err, &typed)
	assert.Len(t, multierr.Errors(typed.Cause), 7)
}

func TestCustomSteps(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	doc := `{"pricing":{"model":"stepped","steps":[{"up_to":1000,"rate":"0.5"},{"up_to":2000,"rate":0.25}]}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	c, err := Load(path)
	require.NoError(t, err)

	m, err := c.Model()
	require.NoError(t, err)
	p, err := m.Price(types.Tier{}, 1_500)
	require.NoError(t, err)
	assert.Equal(t, "375", p.String())
}

func TestInvalidStepsRejected(t *testing.T) {
	c := Default()
	c.Pricing.Model = pricing.ModelStepped
	c.Pricing.Steps = []pricing.Bracket{{UpTo: 2000}, {UpTo: 1000}}
	assert.Error(t, c.Validate())
}

func TestBoundsOverride(t *testing.T) {
	c := Default()
	c.Calculator = &types.Bounds{Min: 0, Max: 1_000, Floor: 10, Default: 500, Step: 10}
	b, err := c.Bounds()
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), b.Max)

	c.Calculator.Default = 2_000
	_, err = c.Bounds()
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestCatalogFromHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.hcl")
	src, err := catalog.EncodeHCL(catalog.Default())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, src, 0644))

	c := Default()
	c.Pricing.CatalogPath = path
	cat, err := c.Catalog()
	require.NoError(t, err)
	assert.Equal(t, catalog.Default().IDs(), cat.IDs())
}

func TestNewCalculator(t *testing.T) {
	calc, err := Default().NewCalculator()
	require.NoError(t, err)
	s := calc.NewSession()
	assert.Equal(t, int64(1_000_000), s.Usage)
	assert.Equal(t, catalog.Professional, s.SelectedTierID)
}

func TestGlobal(t *testing.T) {
	orig := Get()
	defer Set(orig)

	c := Default()
	c.Server.Addr = ":1"
	Set(c)
	assert.Equal(t, ":1", Get().Server.Addr)
}

func TestConfigVersion(t *testing.T) {
	for _, v := range []string{"", "1", "1.0", "1.4.2"} {
		assert.NoError(t, checkVersion(v), v)
	}
	for _, v := range []string{"0.9", "2.0.0", "latest"} {
		err := checkVersion(v)
		assert.True(t, errors.IsType(err, errors.TypeConfig), v)
	}
}
