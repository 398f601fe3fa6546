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
	"storefront-service/internal/models"
)

// BizhubClient talks to the external inventory-source API the storefront
// imports products from. Authentication is OAuth2 client credentials; the
// access token lives in an injected TokenCache.
type BizhubClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	rateLimiter  *rate.Limiter
	tokens       *TokenCache
}

// BizhubProduct is one product as Bizhub reports it.
type BizhubProduct struct {
	ExternalID    string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"listPrice,omitempty"`
	Category      string   `json:"category"`
	Condition     string   `json:"condition"`
	Stock         int      `json:"stockLevel"`
	ImageURL      string   `json:"imageUrl"`
	Specs         string   `json:"specifications"`
}

// BizhubPage is one page of inventory with an opaque continuation cursor.
type BizhubPage struct {
	Products   []BizhubProduct `json:"products"`
	NextCursor string          `json:"nextCursor,omitempty"`
}

// NewBizhubClient creates a client for the given endpoint and credentials.
func NewBizhubClient(baseURL, clientID, clientSecret string, tokens *TokenCache) *BizhubClient {
	return &BizhubClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		rateLimiter:  rate.NewLimiter(rate.Limit(5), 2),
		tokens:       tokens,
	}
}

// token returns a cached access token, fetching a fresh one when the cache is
// empty or near expiry.
func (c *BizhubClient) token(ctx context.Context) (string, error) {
	if tok, ok := c.tokens.Get(); ok {
		return tok, nil
	}

	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", c.clientID)
	data.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request failed: %s: %s", resp.Status, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}

	expiresAt := time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	c.tokens.Set(tokenResp.AccessToken, expiresAt)
	return tokenResp.AccessToken, nil
}

// FetchProducts retrieves one page of inventory. An empty cursor starts from
// the beginning; the returned cursor continues the scan.
func (c *BizhubClient) FetchProducts(ctx context.Context, cursor string, limit int) (*BizhubPage, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	tok, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/products?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bizhub request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bizhub returned %s: %s", resp.Status, string(body))
	}

	var page BizhubPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to parse bizhub response: %w", err)
	}
	return &page, nil
}

// ToCreateRequest converts a Bizhub product into the storefront create
// payload.
func (p BizhubProduct) ToCreateRequest() models.CreateProductRequest {
	externalID := p.ExternalID
	return models.CreateProductRequest{
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Category:      p.Category,
		Condition:     p.Condition,
		Stock:         p.Stock,
		ImageURL:      p.ImageURL,
		DetailedSpecs: p.Specs,
		ExternalID:    &externalID,
	}
}
