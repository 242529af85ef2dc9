package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked tokens in Redis until their natural expiry.
// Key format: revoked:<sha256(token)> — tokens are never stored verbatim.
type TokenBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist creates a TokenBlacklist wrapping the given Redis client.
func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Revoke marks the token as dead. The entry expires when the token itself
// would have: keeping it longer buys nothing.
func (b *TokenBlacklist) Revoke(ctx context.Context, tokenStr string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.key(tokenStr), "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist set: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token was blacklisted.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenStr string) (bool, error) {
	n, err := b.client.Exists(ctx, b.key(tokenStr)).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist check: %w", err)
	}
	return n > 0, nil
}

func (b *TokenBlacklist) key(tokenStr string) string {
	sum := sha256.Sum256([]byte(tokenStr))
	return "revoked:" + hex.EncodeToString(sum[:])
}
