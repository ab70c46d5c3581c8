// Package output provides output formatting interfaces.
// This package produces human and machine-readable outputs.
package output

import (
	"io"
	"time"

	"datapoint-pricing/core/comparison"
	"datapoint-pricing/core/selection"
	"datapoint-pricing/core/types"
	"datapoint-pricing/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatYAML is machine-readable YAML
	FormatYAML Format = "yaml"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format
func Formats() []Format {
	return []Format{FormatCLI, FormatJSON, FormatYAML, FormatMarkdown}
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Report is everything a command may print. Empty sections are skipped.
type Report struct {
	// Tiers is the catalog listing
	Tiers []types.Tier `json:"tiers,omitempty" yaml:"tiers,omitempty"`

	// Quote is every tier priced at one usage value
	Quote *selection.Quote `json:"quote,omitempty" yaml:"quote,omitempty"`

	// Chart is the comparison view
	Chart *comparison.Chart `json:"chart,omitempty" yaml:"chart,omitempty"`

	// Metadata contains execution context
	Metadata Metadata `json:"metadata" yaml:"metadata"`
}

// Metadata contains report context
type Metadata struct {
	GeneratedAt time.Time      `json:"generated_at" yaml:"generated_at"`
	Version     string         `json:"version,omitempty" yaml:"version,omitempty"`
	Currency    types.Currency `json:"currency" yaml:"currency"`
}

// NewMetadata stamps a report with the current time
func NewMetadata(version string) Metadata {
	return Metadata{
		GeneratedAt: time.Now().UTC(),
		Version:     version,
		Currency:    types.CurrencyUSD,
	}
}

// Options tune formatter construction
type Options struct {
	// NoColor disables ANSI colors in CLI output
	NoColor bool

	// Compact disables indentation in JSON output
	Compact bool
}

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	if s == "" {
		return FormatCLI, nil
	}
	return "", errors.Inputf("unknown output format %q (want one of %v)", s, Formats())
}

// NewFormatter creates the formatter for format
func NewFormatter(format Format, opts Options) (Formatter, error) {
	switch format {
	case FormatCLI, "":
		return &CLIFormatter{NoColor: opts.NoColor}, nil
	case FormatJSON:
		return &JSONFormatter{Compact: opts.Compact}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{}, nil
	default:
		return nil, errors.Inputf("unknown output format %q", format)
	}
}
