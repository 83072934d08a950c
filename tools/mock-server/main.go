// Package main implements a mock marketplace server for local development.
// It serves Rakuten Ichiba, Yahoo! Shopping and Amazon PA-API search
// responses from a JSON catalog so pricediff can run without credentials.
//
// Point pricediff at it with:
//
//	RAKUTEN_SEARCH_URL=http://localhost:8089/rakuten/search
//	YAHOO_SEARCH_URL=http://localhost:8089/yahoo/search
//	AMAZON_ENDPOINT=http://localhost:8089/paapi5/searchitems
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

type catalogItem struct {
	Source   string `json:"source"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Shipping *int64 `json:"shipping,omitempty"`
	URL      string `json:"url"`
	Image    string `json:"image,omitempty"`
}

type catalog struct {
	Items []catalogItem `json:"items"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/catalog.json", "path to catalog fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cat, err := loadCatalog(*fixtureFile)
	if err != nil {
		logger.Error("failed to load catalog", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded catalog", "items", len(cat.Items))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock marketplace server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, cat)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, cat *catalog) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rakuten/search", rakutenHandler(logger, cat))
	mux.HandleFunc("GET /yahoo/search", yahooHandler(logger, cat))
	mux.HandleFunc("POST /paapi5/searchitems", amazonHandler(logger, cat))
	return mux
}

func loadCatalog(path string) (*catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var c catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return &c, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

// match returns the source's items whose name contains every keyword,
// cheapest first.
func (c *catalog) match(source, query string, limit int) []catalogItem {
	words := strings.Fields(strings.ToLower(query))
	var out []catalogItem
	for _, it := range c.Items {
		if it.Source != source {
			continue
		}
		name := strings.ToLower(it.Name)
		ok := true
		for _, w := range words {
			if !strings.Contains(name, w) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func intParam(r *http.Request, key string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil && v > 0 {
		return v
	}
	return def
}

func rakutenHandler(logger *slog.Logger, cat *catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("applicationId") == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":             "wrong_parameter",
				"error_description": "specify valid applicationId",
			})
			return
		}

		hits := cat.match("rakuten", q.Get("keyword"), intParam(r, "hits", 30))
		items := make([]map[string]any, 0, len(hits))
		for _, it := range hits {
			item := map[string]any{
				"itemName":  it.Name,
				"itemPrice": it.Price,
				"itemUrl":   it.URL,
				// 1 means postage included; the catalog marks that as free shipping.
				"postageFlag": 0,
			}
			if it.Shipping != nil && *it.Shipping == 0 {
				item["postageFlag"] = 1
			}
			if it.Image != "" {
				item["mediumImageUrls"] = []map[string]string{{"imageUrl": it.Image}}
			}
			items = append(items, map[string]any{"Item": item})
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"count": len(items),
			"page":  1,
			"hits":  len(items),
			"Items": items,
		})
		logger.Info("rakuten search", "keyword", q.Get("keyword"), "returned", len(items))
	}
}

func yahooHandler(logger *slog.Logger, cat *catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("appid") == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"Error": map[string]string{"Message": "appid is required"},
			})
			return
		}

		found := cat.match("yahoo", q.Get("query"), intParam(r, "results", 20))
		hits := make([]map[string]any, 0, len(found))
		for _, it := range found {
			hit := map[string]any{
				"name":  it.Name,
				"url":   it.URL,
				"price": it.Price,
			}
			if it.Image != "" {
				hit["image"] = map[string]string{"medium": it.Image}
			}
			if it.Shipping != nil {
				hit["shipping"] = map[string]any{"code": 2, "price": *it.Shipping}
			} else {
				hit["shipping"] = map[string]any{"code": 1}
			}
			hits = append(hits, hit)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"totalResultsAvailable": len(hits),
			"totalResultsReturned":  len(hits),
			"hits":                  hits,
		})
		logger.Info("yahoo search", "query", q.Get("query"), "returned", len(hits))
	}
}

type searchItemsRequest struct {
	Keywords   string `json:"Keywords"`
	ItemCount  int    `json:"ItemCount"`
	PartnerTag string `json:"PartnerTag"`
}

func amazonHandler(logger *slog.Logger, cat *catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The signature is not verified; only its presence is checked.
		if !strings.HasPrefix(r.Header.Get("Authorization"), "AWS4-HMAC-SHA256 ") {
			writeJSON(w, http.StatusUnauthorized, amazonError("IncompleteSignature", "The request signature is missing."))
			return
		}

		var req searchItemsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PartnerTag == "" {
			writeJSON(w, http.StatusBadRequest, amazonError("InvalidParameterValue", "The request body is invalid."))
			return
		}

		found := cat.match("amazon", req.Keywords, req.ItemCount)
		if len(found) == 0 {
			writeJSON(w, http.StatusOK, amazonError("NoResults", "No results found for your request."))
			return
		}

		items := make([]map[string]any, 0, len(found))
		for _, it := range found {
			listing := map[string]any{
				"Price": map[string]any{"Amount": it.Price, "Currency": "JPY"},
			}
			if it.Shipping != nil {
				listing["DeliveryInfo"] = map[string]any{
					"ShippingCharges": []map[string]any{{"Amount": *it.Shipping, "Currency": "JPY"}},
				}
			}
			item := map[string]any{
				"DetailPageURL": it.URL,
				"ItemInfo":      map[string]any{"Title": map[string]string{"DisplayValue": it.Name}},
				"Offers":        map[string]any{"Listings": []map[string]any{listing}},
			}
			if it.Image != "" {
				item["Images"] = map[string]any{"Primary": map[string]any{"Medium": map[string]string{"URL": it.Image}}}
			}
			items = append(items, item)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"SearchResult": map[string]any{"TotalResultCount": len(items), "Items": items},
		})
		logger.Info("amazon search", "keywords", req.Keywords, "returned", len(items))
	}
}

func amazonError(code, msg string) map[string]any {
	return map[string]any{
		"Errors": []map[string]string{{"Code": code, "Message": msg}},
	}
}
