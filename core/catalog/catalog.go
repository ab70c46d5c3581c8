// Package catalog - Authoritative pricing tier catalog
// Holds the ordered list of tiers every calculation is made against.
// A catalog is validated once on construction and never mutated afterwards.
package catalog

import (
	"datapoint-pricing/core/types"
	"datapoint-pricing/internal/errors"
)

// Catalog is an ordered, immutable set of tiers
type Catalog struct {
	tiers []types.Tier
	index map[string]int
}

// New builds a catalog from tiers in display order.
// Tiers are copied; later changes to the argument do not leak in.
func New(tiers []types.Tier) (*Catalog, error) {
	if err := Validate(tiers, DefaultValidationRules()); err != nil {
		return nil, err
	}

	c := &Catalog{
		tiers: make([]types.Tier, len(tiers)),
		index: make(map[string]int, len(tiers)),
	}
	for i, t := range tiers {
		c.tiers[i] = t.Clone()
		c.index[t.ID] = i
	}
	return c, nil
}

// MustNew is New for static tables; it panics on an invalid catalog.
func MustNew(tiers []types.Tier) *Catalog {
	c, err := New(tiers)
	if err != nil {
		panic(err)
	}
	return c
}

// Tiers returns the tiers in catalog order
func (c *Catalog) Tiers() []types.Tier {
	out := make([]types.Tier, len(c.tiers))
	for i, t := range c.tiers {
		out[i] = t.Clone()
	}
	return out
}

// Len returns the number of tiers
func (c *Catalog) Len() int {
	return len(c.tiers)
}

// Get returns a tier by ID
func (c *Catalog) Get(id string) (types.Tier, bool) {
	i, ok := c.index[id]
	if !ok {
		return types.Tier{}, false
	}
	return c.tiers[i].Clone(), true
}

// Lookup returns a tier by ID or a NOT_FOUND error
func (c *Catalog) Lookup(id string) (types.Tier, error) {
	t, ok := c.Get(id)
	if !ok {
		return types.Tier{}, errors.NotFound("tier", id)
	}
	return t, nil
}

// IDs returns tier IDs in catalog order
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.tiers))
	for i, t := range c.tiers {
		ids[i] = t.ID
	}
	return ids
}

// Popular returns the tier flagged as most popular, if any
func (c *Catalog) Popular() (types.Tier, bool) {
	for _, t := range c.tiers {
		if t.IsPopular {
			return t.Clone(), true
		}
	}
	return types.Tier{}, false
}
