package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Principal describes the authenticated actor behind a request. The role
// value is established by the authentication layer; authorization
// re-validates it against the role registry at the boundary.
type Principal struct {
	ID   uuid.UUID `json:"id"`
	Role string    `json:"role"`
}

// PrincipalStore maps bearer tokens to principals in Redis. The
// authentication service deposits an entry when it issues a token; the
// authn middleware looks it up per request.
type PrincipalStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPrincipalStore constructs a PrincipalStore.
func NewPrincipalStore(client *redis.Client, ttl time.Duration) *PrincipalStore {
	return &PrincipalStore{client: client, ttl: ttl}
}

// Lookup returns the principal stored for the token, or ErrTokenNotFound.
func (s *PrincipalStore) Lookup(ctx context.Context, token string) (*Principal, error) {
	payload, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("shared: principal lookup: %w", err)
	}
	var p Principal
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("shared: principal decode: %w", err)
	}
	return &p, nil
}

// Save stores the principal under the token with the configured TTL.
func (s *PrincipalStore) Save(ctx context.Context, token string, p Principal) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("shared: principal encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("shared: principal save: %w", err)
	}
	return nil
}

// Delete removes the token's principal, revoking the token.
func (s *PrincipalStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("shared: principal delete: %w", err)
	}
	return nil
}

func (s *PrincipalStore) key(token string) string {
	return "carebridge:principal:" + token
}
