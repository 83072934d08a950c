package yahoo

import (
	"bytes"
	"encoding/json"

	"github.com/donaldgifford/pricediff/internal/market"
	domain "github.com/donaldgifford/pricediff/pkg/types"
)

// ToCandidates converts itemSearch hits into comparison candidates, keeping
// response order.
func ToCandidates(hits []Hit) []domain.Candidate {
	cands := make([]domain.Candidate, 0, len(hits))
	for i := range hits {
		cands = append(cands, toCandidate(&hits[i]))
	}
	return cands
}

func toCandidate(hit *Hit) domain.Candidate {
	c := domain.Candidate{
		Name:     hit.Name,
		Price:    amount(hit.Price, "value"),
		Shipping: amount(hit.Shipping, "price"),
		URL:      hit.URL,
	}
	if hit.Image != nil {
		c.ImageURL = hit.Image.Medium
		if c.ImageURL == "" {
			c.ImageURL = hit.Image.Small
		}
	}
	return c
}

// amount reads a scalar amount, or the named field when raw is an object.
// Shipping objects that only carry a code or label resolve to nil.
func amount(raw json.RawMessage, field string) *int64 {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return market.AmountPtr(trimmed)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil
	}
	return market.AmountPtr(obj[field])
}
