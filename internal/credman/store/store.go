package store

import (
	"context"
	"errors"
	"time"

	"github.com/sunfall-labs/credman/internal/credman/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. It exposes sub-repositories to keep concerns tidy
// and testable, and to stop callers from accidentally nesting transactions.
type Store interface {
	AuthorizationRequests() AuthorizationRequests
	Tokens() Tokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle multi-step writes.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type AuthorizationRequests interface {
	// CreateAuthorizationRequest inserts a new PENDING flow row.
	CreateAuthorizationRequest(ctx context.Context, req domain.AuthorizationRequest) error

	// GetAuthorizationRequestByState fetches a flow row by its anti-CSRF
	// state token. Returns ErrNotFound when no row carries the state.
	GetAuthorizationRequestByState(ctx context.Context, state string) (domain.AuthorizationRequest, error)

	// AcknowledgeAuthorizationRequest stores the provider's authorization
	// code against the PENDING row matching state, flips it to ACKNOWLEDGED
	// and stamps updated_at. Returns ErrNotFound when no PENDING row matches.
	AcknowledgeAuthorizationRequest(ctx context.Context, state, code string, now time.Time) error

	// LatestAcknowledgedAuthorizationRequest returns the most recently
	// acknowledged flow row, or ErrNotFound when none exists.
	LatestAcknowledgedAuthorizationRequest(ctx context.Context) (domain.AuthorizationRequest, error)
}

type Tokens interface {
	// AppendToken appends a record to the token ledger. Records are
	// immutable once written.
	AppendToken(ctx context.Context, rec domain.TokenRecord) error

	// CurrentToken returns the newest ledger record by creation time
	// (ULID id breaks ties), or ErrNotFound on an empty ledger.
	CurrentToken(ctx context.Context) (domain.TokenRecord, error)

	// CountTokens reports the number of records in the ledger.
	CountTokens(ctx context.Context) (int, error)
}
