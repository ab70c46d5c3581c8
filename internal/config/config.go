// Package config provides configuration management.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-json"
	"go.uber.org/multierr"

	"datapoint-pricing/core/catalog"
	"datapoint-pricing/core/input"
	"datapoint-pricing/core/pricing"
	"datapoint-pricing/core/selection"
	"datapoint-pricing/core/types"
	"datapoint-pricing/internal/errors"
	"datapoint-pricing/internal/logging"
)

// FileName is the default configuration file name in the home directory
const FileName = ".datapoint-pricing.json"

// SupportedVersions is the range of config file versions this build reads
const SupportedVersions = "^1.0"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `json:"pricing"`

	// Calculator overrides the usage bounds of the pricing model.
	// Nil uses the bounds that belong to the model.
	Calculator *types.Bounds `json:"calculator,omitempty"`

	// Selection contains best-tier selection settings
	Selection SelectionConfig `json:"selection"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// Model is the pricing model (linear, stepped)
	Model pricing.ModelKind `json:"model"`

	// Currency is the quote currency; only USD is supported
	Currency types.Currency `json:"currency"`

	// CatalogPath is an HCL tier catalog; empty uses the built-in tiers
	CatalogPath string `json:"catalog_path,omitempty"`

	// Steps replaces the default step schedule of the stepped model
	Steps []pricing.Bracket `json:"steps,omitempty"`
}

// SelectionConfig contains best-tier selection settings
type SelectionConfig struct {
	// TieBreak is "first" or "last"
	TieBreak string `json:"tie_break"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// ShutdownTimeoutSeconds bounds graceful shutdown
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds"`

	// RateLimit is requests per second per client IP; 0 disables limiting
	RateLimit float64 `json:"rate_limit"`

	// RateBurst is the burst allowed above RateLimit
	RateBurst int `json:"rate_burst"`
}

// ShutdownTimeout returns the graceful shutdown bound
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// Color enables ANSI colors in CLI output
	Color bool `json:"color"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Pricing: PricingConfig{
			Model:    pricing.ModelLinear,
			Currency: types.CurrencyUSD,
		},
		Selection: SelectionConfig{
			TieBreak: string(selection.TiePreferFirst),
		},
		Server: ServerConfig{
			Addr:                   ":8080",
			ShutdownTimeoutSeconds: 10,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			Color:         true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.datapoint-pricing.json
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load loads configuration from a file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.TypeConfig, "reading config", err).WithContext("path", path)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "decoding config", err).WithContext("path", path)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.TypeConfig, "creating config directory", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Internal("encoding config", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Wrap(errors.TypeConfig, "writing config", err).WithContext("path", path)
	}
	return nil
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	var errs error

	if err := checkVersion(c.Version); err != nil {
		errs = multierr.Append(errs, err)
	}
	if c.Pricing.Currency != "" && c.Pricing.Currency != types.CurrencyUSD {
		errs = multierr.Append(errs, errors.Newf(errors.TypeConfig, "unsupported currency %q", c.Pricing.Currency))
	}
	if _, err := c.Model(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := selection.ParseTieBreak(c.Selection.TieBreak); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := c.Bounds(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if c.Server.ShutdownTimeoutSeconds < 0 {
		errs = multierr.Append(errs, errors.Config("server shutdown timeout must not be negative"))
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		errs = multierr.Append(errs, errors.Config("server rate limit must not be negative"))
	}

	if errs != nil {
		return errors.Wrap(errors.TypeConfig, "invalid configuration", errs)
	}
	return nil
}

// checkVersion accepts an empty version or one inside SupportedVersions
func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return errors.Wrap(errors.TypeConfig, "invalid config version", err).WithContext("version", v)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return errors.Internal("parsing version constraint", err)
	}
	if !constraint.Check(version) {
		return errors.Newf(errors.TypeConfig, "unsupported config version %s (want %s)", v, SupportedVersions)
	}
	return nil
}

// Model builds the configured pricing model
func (c *Config) Model() (pricing.Model, error) {
	var schedule *pricing.StepSchedule
	if len(c.Pricing.Steps) > 0 {
		s, err := pricing.NewStepSchedule(c.Pricing.Steps)
		if err != nil {
			return nil, err
		}
		schedule = s
	}
	return pricing.NewModel(c.Pricing.Model, schedule)
}

// Selector builds the configured best-tier selector
func (c *Config) Selector() (*selection.Selector, error) {
	model, err := c.Model()
	if err != nil {
		return nil, err
	}
	tb, err := selection.ParseTieBreak(c.Selection.TieBreak)
	if err != nil {
		return nil, err
	}
	return selection.New(selection.WithModel(model), selection.WithTieBreak(tb)), nil
}

// Catalog loads the configured tier catalog
func (c *Config) Catalog() (*catalog.Catalog, error) {
	if c.Pricing.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(c.Pricing.CatalogPath)
}

// Bounds returns the usage bounds: the override if set, otherwise the
// bounds of the configured model.
func (c *Config) Bounds() (types.Bounds, error) {
	if c.Calculator == nil {
		if c.Pricing.Model == pricing.ModelStepped {
			return types.SteppedBounds(), nil
		}
		return types.ContinuousBounds(), nil
	}

	b := *c.Calculator
	switch {
	case b.Min < 0:
		return b, errors.Config("calculator min must not be negative")
	case b.Max <= b.Min:
		return b, errors.Config("calculator max must be greater than min")
	case !b.Contains(b.Default):
		return b, errors.Config("calculator default must be within min and max")
	case !b.Contains(b.Floor):
		return b, errors.Config("calculator floor must be within min and max")
	case b.Step < 0:
		return b, errors.Config("calculator step must not be negative")
	}
	return b, nil
}

// NewCalculator assembles the interactive calculator from the configuration
func (c *Config) NewCalculator() (*input.Calculator, error) {
	cat, err := c.Catalog()
	if err != nil {
		return nil, err
	}
	sel, err := c.Selector()
	if err != nil {
		return nil, err
	}
	bounds, err := c.Bounds()
	if err != nil {
		return nil, err
	}
	return input.NewCalculator(bounds, cat.Tiers(), sel), nil
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
