package domain

import (
	"encoding/json"
	"time"

	"github.com/sunfall-labs/credman/pkg/idx"
)

// TokenPair is what the provider's token endpoint returns: the short-lived
// access token and the refresh token that replaces it. Raw preserves the
// provider's exact response body for passthrough to callers.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"` // typically "Bearer"
	ExpiresIn    int64  `json:"expires_in"`           // seconds until expiry

	Raw json.RawMessage `json:"-"`
}

// TokenRecord is one row in the append-only token ledger. The newest row by
// CreatedAt is the current credential; older rows are history and are never
// updated or deleted.
type TokenRecord struct {
	ID           idx.ID
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time // from the access token's exp claim when it parses as a JWT
	CreatedAt    time.Time
}
