// Package catalog - HCL catalog files
package catalog

import (
	"fmt"
	"math/big"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"datapoint-pricing/core/types"
	"datapoint-pricing/internal/errors"
)

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "tier", LabelNames: []string{"id"}},
	},
}

var tierSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "name", Required: true},
		{Name: "description"},
		{Name: "included", Required: true},
		{Name: "base_price", Required: true},
		{Name: "rate_per_1k", Required: true},
		{Name: "popular"},
		{Name: "features"},
	},
}

// LoadFile reads and validates an HCL catalog file
func LoadFile(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "failed to read catalog", err).WithContext("path", path)
	}
	return ParseHCL(src, path)
}

// ParseHCL decodes tier blocks from src. Blocks keep file order.
func ParseHCL(src []byte, filename string) (*Catalog, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Parsing("invalid catalog syntax", diags)
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, errors.Parsing("invalid catalog structure", diags)
	}

	tiers := make([]types.Tier, 0, len(content.Blocks))
	for _, block := range content.Blocks {
		tier, err := decodeTier(block)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}

	return New(tiers)
}

func decodeTier(block *hcl.Block) (types.Tier, error) {
	tier := types.Tier{ID: block.Labels[0]}
	where := fmt.Sprintf("%s: tier %q", block.DefRange.String(), tier.ID)

	attrs, diags := block.Body.Content(tierSchema)
	if diags.HasErrors() {
		return tier, errors.Parsing(where, diags)
	}

	values := make(map[string]cty.Value, len(attrs.Attributes))
	for name, attr := range attrs.Attributes {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return tier, errors.Parsing(fmt.Sprintf("%s: %s", where, name), diags)
		}
		values[name] = v
	}

	var err error
	if tier.Name, err = stringAttr(values, "name"); err != nil {
		return tier, errors.Parsing(where, err)
	}
	if tier.Description, err = stringAttr(values, "description"); err != nil {
		return tier, errors.Parsing(where, err)
	}
	if tier.IncludedAllowance, err = intAttr(values, "included"); err != nil {
		return tier, errors.Parsing(where, err)
	}
	if tier.BasePrice, err = decimalAttr(values, "base_price"); err != nil {
		return tier, errors.Parsing(where, err)
	}
	if tier.MarginalRatePer1k, err = decimalAttr(values, "rate_per_1k"); err != nil {
		return tier, errors.Parsing(where, err)
	}
	if tier.IsPopular, err = boolAttr(values, "popular"); err != nil {
		return tier, errors.Parsing(where, err)
	}
	if tier.Features, err = stringListAttr(values, "features"); err != nil {
		return tier, errors.Parsing(where, err)
	}
	return tier, nil
}

func stringAttr(values map[string]cty.Value, name string) (string, error) {
	v, ok := values[name]
	if !ok || v.IsNull() {
		return "", nil
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return s.AsString(), nil
}

func boolAttr(values map[string]cty.Value, name string) (bool, error) {
	v, ok := values[name]
	if !ok || v.IsNull() {
		return false, nil
	}
	b, err := convert.Convert(v, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return b.True(), nil
}

func numberAttr(values map[string]cty.Value, name string) (*big.Float, error) {
	v, ok := values[name]
	if !ok || v.IsNull() {
		return nil, fmt.Errorf("%s is required", name)
	}
	n, err := convert.Convert(v, cty.Number)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return n.AsBigFloat(), nil
}

func intAttr(values map[string]cty.Value, name string) (int64, error) {
	f, err := numberAttr(values, name)
	if err != nil {
		return 0, err
	}
	if !f.IsInt() {
		return 0, fmt.Errorf("%s must be a whole number, got %s", name, f.Text('f', -1))
	}
	i, acc := f.Int64()
	if acc != big.Exact {
		return 0, fmt.Errorf("%s is out of range: %s", name, f.Text('f', -1))
	}
	return i, nil
}

func decimalAttr(values map[string]cty.Value, name string) (decimal.Decimal, error) {
	f, err := numberAttr(values, name)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(f.Text('f', -1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

func stringListAttr(values map[string]cty.Value, name string) ([]string, error) {
	v, ok := values[name]
	if !ok || v.IsNull() {
		return nil, nil
	}
	if !v.CanIterateElements() {
		return nil, fmt.Errorf("%s must be a list of strings", name)
	}
	var out []string
	for it, i := v.ElementIterator(), 0; it.Next(); i++ {
		_, elem := it.Element()
		if elem.IsNull() || !elem.IsWhollyKnown() {
			return nil, fmt.Errorf("%s[%d] must be a known string", name, i)
		}
		s, err := convert.Convert(elem, cty.String)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, s.AsString())
	}
	return out, nil
}

// EncodeHCL renders the catalog in the format ParseHCL reads.
func EncodeHCL(c *Catalog) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	for i, t := range c.tiers {
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("tier", []string{t.ID}).Body()
		block.SetAttributeValue("name", cty.StringVal(t.Name))
		if t.Description != "" {
			block.SetAttributeValue("description", cty.StringVal(t.Description))
		}
		block.SetAttributeValue("included", cty.NumberIntVal(t.IncludedAllowance))

		base, err := cty.ParseNumberVal(t.BasePrice.String())
		if err != nil {
			return nil, errors.Internal("encode base price", err)
		}
		block.SetAttributeValue("base_price", base)

		rate, err := cty.ParseNumberVal(t.MarginalRatePer1k.String())
		if err != nil {
			return nil, errors.Internal("encode marginal rate", err)
		}
		block.SetAttributeValue("rate_per_1k", rate)

		if t.IsPopular {
			block.SetAttributeValue("popular", cty.True)
		}
		if len(t.Features) > 0 {
			features := make([]cty.Value, len(t.Features))
			for j, feat := range t.Features {
				features[j] = cty.StringVal(feat)
			}
			block.SetAttributeValue("features", cty.ListVal(features))
		}
	}

	return f.Bytes(), nil
}
