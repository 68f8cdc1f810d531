package cart

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/config"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/errors"
	redisclient "github.com/barrelhousehq/barrelhouse-backend/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

// Store persists register carts in Redis keyed by register session id. Each
// write refreshes the TTL so an active register never loses its cart; an idle
// one expires after the configured window.
type Store struct {
	client *redisclient.Client
	cfg    config.RegisterConfig
}

// NewStore builds a Redis-backed cart store.
func NewStore(client *redisclient.Client, cfg config.RegisterConfig) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.CartTTL <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &Store{client: client, cfg: cfg}, nil
}

// Load fetches the cart for the session. A missing key yields an empty cart.
func (s *Store) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.RegisterCartKey(sessionID))
	if err != nil {
		if stdErrors.Is(err, redislib.Nil) {
			return &Cart{}, nil
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "failed to load register cart")
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "corrupt register cart payload")
	}
	return FromLines(lines), nil
}

// Save writes the cart back under the session key with a fresh TTL.
func (s *Store) Save(ctx context.Context, sessionID string, c *Cart) error {
	payload, err := json.Marshal(c.Lines())
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "failed to encode register cart")
	}
	if err := s.client.Set(ctx, s.client.RegisterCartKey(sessionID), string(payload), s.cfg.CartTTL); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "failed to save register cart")
	}
	return nil
}

// Clear drops the cart, typically after checkout or an explicit void.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.RegisterCartKey(sessionID)); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "failed to clear register cart")
	}
	return nil
}
