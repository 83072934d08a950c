// Package domain defines the core business types for the price comparison
// pipeline.
package domain

import (
	"strconv"
	"strings"
)

// Source identifies a marketplace.
type Source string

// Source constants.
const (
	SourceRakuten Source = "rakuten"
	SourceAmazon  Source = "amazon"
	SourceYahoo   Source = "yahoo"
)

// Sources lists every marketplace in display precedence order. The report
// columns and the display-name choice both follow this order.
var Sources = []Source{SourceRakuten, SourceAmazon, SourceYahoo}

// Label returns the column label prefix used in the CSV header.
func (s Source) Label() string {
	switch s {
	case SourceRakuten:
		return "楽天"
	case SourceAmazon:
		return "Amazon"
	case SourceYahoo:
		return "Yahoo"
	default:
		return string(s)
	}
}

// Candidate is a search result mapped from a marketplace response but not yet
// filtered. Price is nil when the response carried no usable price.
type Candidate struct {
	Name     string
	ImageURL string
	Price    *int64
	Shipping *int64
	URL      string
}

// Listing is a normalized, eligible search result. It is only built from a
// Candidate with a non-empty, non-excluded name and a resolved price.
type Listing struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
	Price    int64  `json:"price"`

	// Shipping is nil when the marketplace did not state a cost. Zero means
	// free shipping.
	Shipping *int64 `json:"shipping,omitempty"`
	URL      string `json:"url"`
}

// PriceString formats the price for report output.
func (l *Listing) PriceString() string {
	if l == nil {
		return ""
	}
	return strconv.FormatInt(l.Price, 10)
}

// ShippingString formats the shipping cost for report output. Unknown
// shipping is an empty string.
func (l *Listing) ShippingString() string {
	if l == nil || l.Shipping == nil {
		return ""
	}
	return strconv.FormatInt(*l.Shipping, 10)
}

// OutcomeStatus describes how a marketplace lookup ended.
type OutcomeStatus string

// Outcome status constants.
const (
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeEmpty   OutcomeStatus = "empty"
	OutcomeFound   OutcomeStatus = "found"
)

// Outcome is the result of one marketplace lookup. Listing is set only when
// Status is OutcomeFound; Err only when Status is OutcomeFailed.
type Outcome struct {
	Source  Source        `json:"source"`
	Status  OutcomeStatus `json:"status"`
	Listing *Listing      `json:"listing,omitempty"`
	Err     error         `json:"-"`
}

// Found reports whether the outcome carries a listing.
func (o *Outcome) Found() bool {
	return o.Status == OutcomeFound && o.Listing != nil
}

// ComparisonRow is the denormalized per-run result written to the report.
type ComparisonRow struct {
	SearchTerm string                   `json:"search_term"`
	Name       string                   `json:"name"`
	ImageURL   string                   `json:"image_url"`
	Offers     map[Source]*Listing      `json:"offers"`
	Outcomes   map[Source]OutcomeStatus `json:"outcomes"`
}

// NewComparisonRow combines per-marketplace outcomes into a row. The display
// name and image come from the first found listing with a non-empty name,
// in Sources order.
func NewComparisonRow(term string, outcomes []Outcome) ComparisonRow {
	row := ComparisonRow{
		SearchTerm: term,
		Offers:     make(map[Source]*Listing, len(outcomes)),
		Outcomes:   make(map[Source]OutcomeStatus, len(outcomes)),
	}
	for i := range outcomes {
		o := &outcomes[i]
		row.Outcomes[o.Source] = o.Status
		if o.Found() {
			row.Offers[o.Source] = o.Listing
		}
	}
	for _, src := range Sources {
		if l := row.Offers[src]; l != nil && l.Name != "" {
			row.Name = l.Name
			row.ImageURL = l.ImageURL
			break
		}
	}
	return row
}

// Offer returns the listing for a source, or nil.
func (r *ComparisonRow) Offer(s Source) *Listing {
	return r.Offers[s]
}

// ParseWordList splits a comma-separated list, trimming blanks and dropping
// empty entries.
func ParseWordList(raw string) []string {
	parts := strings.Split(raw, ",")
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if w := strings.TrimSpace(p); w != "" {
			words = append(words, w)
		}
	}
	return words
}
