package domain

import (
	"time"

	"github.com/sunfall-labs/credman/pkg/idx"
)

// AuthorizationRequestStatus tracks where a flow sits in its lifecycle.
type AuthorizationRequestStatus string

const (
	// AuthorizationRequestPending means the authorize URL was handed out but
	// the provider has not called back yet.
	AuthorizationRequestPending AuthorizationRequestStatus = "PENDING"

	// AuthorizationRequestAcknowledged means the provider callback landed
	// and the authorization code is stored, ready for exchange.
	AuthorizationRequestAcknowledged AuthorizationRequestStatus = "ACKNOWLEDGED"
)

// AuthorizationRequest is one row in the authorization request ledger: a
// single attempt at the Authorization Code + PKCE flow. Rows are created
// PENDING and flipped to ACKNOWLEDGED by the provider callback; they are
// never deleted by the flow itself.
type AuthorizationRequest struct {
	ID                idx.ID
	CodeVerifier      string
	State             string
	AuthorizationCode *string // nil until the callback is acknowledged
	Status            AuthorizationRequestStatus
	CreatedAt         time.Time
	UpdatedAt         *time.Time // nil until the callback is acknowledged
}

// Acknowledged reports whether the provider callback for this request
// has been processed.
func (r AuthorizationRequest) Acknowledged() bool {
	return r.Status == AuthorizationRequestAcknowledged
}
