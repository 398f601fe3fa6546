package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartTTL bounds how long an abandoned cart survives in redis.
const CartTTL = 7 * 24 * time.Hour

// Store persists cart state per session in redis.
type Store struct {
	redis     *redis.Client
	keyPrefix string
}

// NewStore creates a redis-backed cart store.
func NewStore(client *redis.Client) *Store {
	return &Store{
		redis:     client,
		keyPrefix: "storefront:cart:",
	}
}

func (s *Store) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

// Get loads the cart for a session; a missing key yields an empty cart.
func (s *Store) Get(ctx context.Context, sessionID string) (State, error) {
	val, err := s.redis.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return State{Items: []Item{}}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to load cart: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		// Corrupt payloads reset to an empty cart rather than wedging the session.
		return State{Items: []Item{}}, nil
	}
	return state, nil
}

// Save writes the cart for a session, refreshing its TTL.
func (s *Store) Save(ctx context.Context, sessionID string, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(sessionID), data, CartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Apply loads the session cart, reduces one action, and persists the result.
func (s *Store) Apply(ctx context.Context, sessionID string, action Action) (State, error) {
	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return State{}, err
	}

	next, err := Reduce(state, action)
	if err != nil {
		return state, err
	}

	if err := s.Save(ctx, sessionID, next); err != nil {
		return state, err
	}
	return next, nil
}
