package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// ContentHash returns a SHA-256 over the priced content of the catalog, in
// catalog order. Two catalogs with the same hash produce the same quotes.
func (c *Catalog) ContentHash() string {
	h := sha256.New()
	for _, t := range c.tiers {
		fields := []string{
			t.ID,
			t.Name,
			t.Description,
			strconv.FormatInt(t.IncludedAllowance, 10),
			t.BasePrice.String(),
			t.MarginalRatePer1k.String(),
			strconv.FormatBool(t.IsPopular),
			strings.Join(t.Features, "\x1f"),
		}
		h.Write([]byte(strings.Join(fields, "\x1e")))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
