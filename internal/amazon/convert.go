package amazon

import (
	"bytes"
	"encoding/json"

	"github.com/donaldgifford/pricediff/internal/market"
	domain "github.com/donaldgifford/pricediff/pkg/types"
)

// ToCandidates converts SearchItems results into comparison candidates,
// keeping response order. Only the first offer listing of each item is
// considered.
func ToCandidates(items []Item) []domain.Candidate {
	cands := make([]domain.Candidate, 0, len(items))
	for i := range items {
		cands = append(cands, toCandidate(&items[i]))
	}
	return cands
}

func toCandidate(item *Item) domain.Candidate {
	c := domain.Candidate{
		Name:     title(item),
		ImageURL: imageURL(item),
		URL:      item.DetailPageURL,
	}

	listing := firstListing(item)
	if listing == nil {
		return c
	}
	if listing.Price != nil {
		c.Price = market.AmountPtr(listing.Price.Amount)
	}
	if listing.DeliveryInfo != nil {
		c.Shipping = shippingCharge(listing.DeliveryInfo.ShippingCharges)
	}
	return c
}

func title(item *Item) string {
	if item.ItemInfo == nil || item.ItemInfo.Title == nil {
		return ""
	}
	return item.ItemInfo.Title.DisplayValue
}

func imageURL(item *Item) string {
	if item.Images == nil || item.Images.Primary == nil || item.Images.Primary.Medium == nil {
		return ""
	}
	return item.Images.Primary.Medium.URL
}

func firstListing(item *Item) *OfferListing {
	if item.Offers == nil || len(item.Offers.Listings) == 0 {
		return nil
	}
	return &item.Offers.Listings[0]
}

// shippingCharge reads the stated shipping amount. Free-shipping eligibility
// flags are not a stated charge and leave shipping unknown.
func shippingCharge(raw json.RawMessage) *int64 {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}

	type charge struct {
		Amount json.RawMessage `json:"Amount"`
	}

	if trimmed[0] == '[' {
		var charges []charge
		if err := json.Unmarshal(trimmed, &charges); err != nil || len(charges) == 0 {
			return nil
		}
		return market.AmountPtr(charges[0].Amount)
	}

	var ch charge
	if err := json.Unmarshal(trimmed, &ch); err != nil {
		return nil
	}
	return market.AmountPtr(ch.Amount)
}
