package cache

import (
	"context"
	"fmt"
	"time"
)

// blacklistPrefix is the Redis key prefix for revoked session tokens.
const blacklistPrefix = "session:revoked:"

// RevokeToken records a token as revoked until its own expiry.
// The entry is keyed by the exact token string and set to expire at the
// token's expiry epoch, so it never outlives the token it blacklists:
// past that point the expiry check rejects the token on its own.
// Revoking the same token twice is harmless, and revoking a token that
// is already at or past expiry is a no-op.
func (c *Cache) RevokeToken(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	// Value 0 keeps memory per entry minimal; only key presence matters.
	key := blacklistPrefix + token
	if err := c.client.Set(ctx, key, 0, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether the token was logged out before its
// natural expiry. Checked on every authenticated request, so it is a
// single EXISTS round trip.
func (c *Cache) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}
