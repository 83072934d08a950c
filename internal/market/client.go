// Package market holds the contract shared by every marketplace adapter:
// the Searcher interface, exclusion filtering, cheapest-listing selection,
// price parsing, and the Lookup boundary that turns any adapter failure into
// an absent result.
package market

import (
	"context"
	"errors"

	domain "github.com/donaldgifford/pricediff/pkg/types"
)

// ErrNotConfigured is returned by a Searcher whose credentials are unset.
var ErrNotConfigured = errors.New("marketplace credentials not configured")

// Searcher issues one search request against a marketplace API and maps the
// response into candidates, preserving the API's result order.
type Searcher interface {
	Source() domain.Source
	Configured() bool
	Search(ctx context.Context, term string) ([]domain.Candidate, error)
}

// Query is one comparison request.
type Query struct {
	Term    string
	Exclude []string
}
