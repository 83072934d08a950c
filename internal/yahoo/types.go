package yahoo

import "encoding/json"

type searchResponse struct {
	TotalResultsAvailable int   `json:"totalResultsAvailable"`
	TotalResultsReturned  int   `json:"totalResultsReturned"`
	Hits                  []Hit `json:"hits"`
}

// Hit is one product from the itemSearch response.
type Hit struct {
	Name  string    `json:"name"`
	Code  string    `json:"code"`
	URL   string    `json:"url"`
	Image *HitImage `json:"image,omitempty"`

	// Price is a number, or an object carrying it under "value".
	Price json.RawMessage `json:"price"`

	// Shipping is a number, or an object that may carry a "price".
	Shipping json.RawMessage `json:"shipping,omitempty"`
}

// HitImage holds image links.
type HitImage struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
}
