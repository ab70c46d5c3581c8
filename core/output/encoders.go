package output

import (
	"io"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"datapoint-pricing/internal/errors"
)

// JSONFormatter writes the report as JSON. Amounts are decimal strings.
type JSONFormatter struct {
	Compact bool
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render writes the report
func (f *JSONFormatter) Render(w io.Writer, report *Report) error {
	var (
		b   []byte
		err error
	)
	if f.Compact {
		b, err = json.Marshal(report)
	} else {
		b, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		return errors.Internal("encoding JSON report", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// YAMLFormatter writes the report as YAML
type YAMLFormatter struct{}

// Format returns FormatYAML
func (f *YAMLFormatter) Format() Format { return FormatYAML }

// Render writes the report
func (f *YAMLFormatter) Render(w io.Writer, report *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return errors.Internal("encoding YAML report", err)
	}
	return enc.Close()
}
