// Package clients holds HTTP clients for the external inventory source
// (Bizhub) and the third-party marketplace search API.
package clients

import (
	"sync"
	"time"
)

// TokenCache holds one OAuth access token with an explicit expiry. It is an
// injected object, not module state, so tests can control time and sessions
// do not pollute each other.
type TokenCache struct {
	mu     sync.Mutex
	value  string
	expiry time.Time
	now    func() time.Time
}

// NewTokenCache creates an empty cache. A nil now defaults to time.Now.
func NewTokenCache(now func() time.Time) *TokenCache {
	if now == nil {
		now = time.Now
	}
	return &TokenCache{now: now}
}

// Get returns the cached token, or false if absent or within the refresh
// margin of expiry.
func (c *TokenCache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.value == "" || c.now().After(c.expiry.Add(-tokenRefreshMargin)) {
		return "", false
	}
	return c.value, true
}

// Set stores a token with its expiry.
func (c *TokenCache) Set(token string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = token
	c.expiry = expiresAt
}

// tokenRefreshMargin refreshes tokens slightly early so an in-flight request
// never carries a token that expires mid-call.
const tokenRefreshMargin = 5 * time.Minute

// RateCache holds exchange rates with an explicit expiry timestamp, replacing
// what used to be implicit module-level state in the marketplace integration.
type RateCache struct {
	mu     sync.Mutex
	rates  map[string]float64
	expiry time.Time
	ttl    time.Duration
	now    func() time.Time
}

// NewRateCache creates a rate cache with the given TTL. A nil now defaults to
// time.Now.
func NewRateCache(ttl time.Duration, now func() time.Time) *RateCache {
	if now == nil {
		now = time.Now
	}
	return &RateCache{ttl: ttl, now: now}
}

// Get returns the cached rate for a currency, or false if the cache is stale
// or the currency is unknown.
func (c *RateCache) Get(currency string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rates == nil || c.now().After(c.expiry) {
		return 0, false
	}
	rate, ok := c.rates[currency]
	return rate, ok
}

// SetAll replaces the whole rate table and restarts the TTL.
func (c *RateCache) SetAll(rates map[string]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates = make(map[string]float64, len(rates))
	for k, v := range rates {
		c.rates[k] = v
	}
	c.expiry = c.now().Add(c.ttl)
}
