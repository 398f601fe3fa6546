package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// MarketplaceClient queries the third-party marketplace search API that backs
// the storefront's infinite-scroll search. Results are cursor-paginated and
// priced in the marketplace's own currency; conversion uses the injected
// RateCache.
type MarketplaceClient struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	rates       *RateCache
}

// MarketplaceListing is one external search hit.
type MarketplaceListing struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	ImageURL string  `json:"imageUrl"`
	URL      string  `json:"url"`
	Seller   string  `json:"seller"`
}

// SearchPage is one page of marketplace results; NextCursor is opaque and
// empty on the last page.
type SearchPage struct {
	Listings   []MarketplaceListing `json:"listings"`
	NextCursor string               `json:"nextCursor,omitempty"`
}

// NewMarketplaceClient creates a marketplace search client.
func NewMarketplaceClient(baseURL, apiKey string, rates *RateCache) *MarketplaceClient {
	return &MarketplaceClient{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		rateLimiter: rate.NewLimiter(rate.Limit(2), 1),
		rates:       rates,
	}
}

// Search runs a keyword query. Prices are converted to USD when the exchange
// rate is known; unknown currencies pass through unconverted.
func (c *MarketplaceClient) Search(ctx context.Context, query, cursor string, limit int) (*SearchPage, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("marketplace request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("marketplace returned %s: %s", resp.Status, string(body))
	}

	var page SearchPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to parse marketplace response: %w", err)
	}

	for i := range page.Listings {
		c.convertPrice(ctx, &page.Listings[i])
	}
	return &page, nil
}

func (c *MarketplaceClient) convertPrice(ctx context.Context, listing *MarketplaceListing) {
	if listing.Currency == "" || listing.Currency == "USD" || c.rates == nil {
		return
	}
	r, ok := c.rates.Get(listing.Currency)
	if !ok {
		if err := c.refreshRates(ctx); err != nil {
			return
		}
		if r, ok = c.rates.Get(listing.Currency); !ok {
			return
		}
	}
	listing.Price = listing.Price * r
	listing.Currency = "USD"
}

// refreshRates reloads the full exchange-rate table into the cache.
func (c *MarketplaceClient) refreshRates(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rates?base=USD", nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rates request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rates request returned %s", resp.Status)
	}

	var ratesResp struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ratesResp); err != nil {
		return fmt.Errorf("failed to parse rates response: %w", err)
	}

	// The API reports units of foreign currency per USD; invert so cached
	// rates convert foreign prices into USD by multiplication.
	inverted := make(map[string]float64, len(ratesResp.Rates))
	for currency, perUSD := range ratesResp.Rates {
		if perUSD > 0 {
			inverted[currency] = 1 / perUSD
		}
	}
	c.rates.SetAll(inverted)
	return nil
}
