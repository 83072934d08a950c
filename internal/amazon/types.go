package amazon

import "encoding/json"

type searchItemsRequest struct {
	Keywords    string   `json:"Keywords"`
	SearchIndex string   `json:"SearchIndex"`
	ItemCount   int      `json:"ItemCount"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace,omitempty"`
	Resources   []string `json:"Resources"`
}

type searchItemsResponse struct {
	SearchResult *SearchResult `json:"SearchResult"`
	Errors       []APIError    `json:"Errors"`
}

// APIError is one entry of a PA-API Errors array.
type APIError struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

// SearchResult holds the items of a SearchItems response.
type SearchResult struct {
	Items            []Item `json:"Items"`
	TotalResultCount int    `json:"TotalResultCount"`
}

// Item is one product from a SearchItems response.
type Item struct {
	ASIN          string    `json:"ASIN"`
	DetailPageURL string    `json:"DetailPageURL"`
	ItemInfo      *ItemInfo `json:"ItemInfo,omitempty"`
	Images        *Images   `json:"Images,omitempty"`
	Offers        *Offers   `json:"Offers,omitempty"`
}

// ItemInfo holds descriptive item attributes.
type ItemInfo struct {
	Title *DisplayValue `json:"Title,omitempty"`
}

// DisplayValue wraps a localized display string.
type DisplayValue struct {
	DisplayValue string `json:"DisplayValue"`
}

// Images holds item images.
type Images struct {
	Primary *ImageSet `json:"Primary,omitempty"`
}

// ImageSet holds image variants by size.
type ImageSet struct {
	Medium *Image `json:"Medium,omitempty"`
}

// Image is one image variant.
type Image struct {
	URL    string `json:"URL"`
	Height int    `json:"Height"`
	Width  int    `json:"Width"`
}

// Offers holds the offer listings for an item.
type Offers struct {
	Listings []OfferListing `json:"Listings"`
}

// OfferListing is one offer; the first listing is the featured offer.
type OfferListing struct {
	Price        *Money        `json:"Price,omitempty"`
	DeliveryInfo *DeliveryInfo `json:"DeliveryInfo,omitempty"`
}

// Money is a price amount.
type Money struct {
	Amount        json.RawMessage `json:"Amount"`
	Currency      string          `json:"Currency"`
	DisplayAmount string          `json:"DisplayAmount"`
}

// DeliveryInfo describes delivery terms of an offer.
type DeliveryInfo struct {
	IsFreeShippingEligible *bool `json:"IsFreeShippingEligible,omitempty"`
	IsPrimeEligible        *bool `json:"IsPrimeEligible,omitempty"`

	// ShippingCharges is an object or an array of objects with an Amount.
	ShippingCharges json.RawMessage `json:"ShippingCharges,omitempty"`
}
