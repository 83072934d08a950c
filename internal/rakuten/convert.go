package rakuten

import (
	"github.com/donaldgifford/pricediff/internal/market"
	domain "github.com/donaldgifford/pricediff/pkg/types"
)

const postageIncluded = 1

// ToCandidates converts Ichiba items into comparison candidates, keeping
// response order.
func ToCandidates(items []Item) []domain.Candidate {
	cands := make([]domain.Candidate, 0, len(items))
	for i := range items {
		cands = append(cands, toCandidate(&items[i]))
	}
	return cands
}

func toCandidate(item *Item) domain.Candidate {
	return domain.Candidate{
		Name:     item.ItemName,
		ImageURL: firstImageURL(item.MediumImageURLs),
		Price:    market.AmountPtr(item.ItemPrice),
		Shipping: shipping(item),
		URL:      item.ItemURL,
	}
}

func firstImageURL(images []ImageURL) string {
	for _, img := range images {
		if img.ImageURL != "" {
			return img.ImageURL
		}
	}
	return ""
}

// Ichiba only reports whether postage is included, never an amount, so
// anything other than the included flag is unknown.
func shipping(item *Item) *int64 {
	if item.PostageFlag != nil && *item.PostageFlag == postageIncluded {
		free := int64(0)
		return &free
	}
	return nil
}
