package rakuten

import "encoding/json"

type searchResponse struct {
	Count int           `json:"count"`
	Page  int           `json:"page"`
	Hits  int           `json:"hits"`
	Items []itemWrapper `json:"Items"`
}

type itemWrapper struct {
	Item Item `json:"Item"`
}

// Item is one product from the Ichiba Item Search response.
type Item struct {
	ItemName        string          `json:"itemName"`
	ItemCode        string          `json:"itemCode"`
	ItemPrice       json.RawMessage `json:"itemPrice"`
	ItemURL         string          `json:"itemUrl"`
	ShopName        string          `json:"shopName"`
	MediumImageURLs []ImageURL      `json:"mediumImageUrls"`

	// PostageFlag is 0 when postage is charged separately and 1 when the
	// price includes postage.
	PostageFlag *int `json:"postageFlag"`
}

// ImageURL wraps an image link.
type ImageURL struct {
	ImageURL string `json:"imageUrl"`
}
