package market

import (
	"strings"

	domain "github.com/donaldgifford/pricediff/pkg/types"
)

// Selection is the result of filtering a candidate list.
type Selection struct {
	Best *domain.Listing

	Eligible int
	Untitled int
	Excluded int
	Unpriced int
}

// IsExcluded reports whether title contains any of words, ignoring case.
// Blank words never match.
func IsExcluded(title string, words []string) bool {
	lowered := strings.ToLower(title)
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// Cheapest drops candidates without a name, with an excluded name, or
// without a price, and returns the lowest-priced survivor. A later candidate
// replaces the current best only when strictly cheaper, so the earliest
// candidate wins ties.
func Cheapest(cands []domain.Candidate, exclude []string) Selection {
	var sel Selection
	for i := range cands {
		c := &cands[i]
		switch {
		case c.Name == "":
			sel.Untitled++
			continue
		case IsExcluded(c.Name, exclude):
			sel.Excluded++
			continue
		case c.Price == nil:
			sel.Unpriced++
			continue
		}

		sel.Eligible++
		if sel.Best == nil || *c.Price < sel.Best.Price {
			sel.Best = &domain.Listing{
				Name:     c.Name,
				ImageURL: c.ImageURL,
				Price:    *c.Price,
				Shipping: c.Shipping,
				URL:      c.URL,
			}
		}
	}
	return sel
}
