package service

import "errors"

// Sentinel errors for flow and refresh operations. HTTP handlers map these
// with errors.Is onto OAuth2-style responses.
var (
	// ErrMissingParameter marks a request missing a required input (code,
	// state, grant_type). The wrap names the parameter.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrCorrelation marks a provider callback whose state token matches no
	// pending authorization request.
	ErrCorrelation = errors.New("callback does not correlate with a pending authorization request")

	// ErrNoPendingRequest marks an exchange attempt with no acknowledged
	// authorization request to redeem.
	ErrNoPendingRequest = errors.New("no acknowledged authorization request")

	// ErrNoToken marks a refresh attempt against an empty token ledger.
	ErrNoToken = errors.New("no token found")

	// ErrExchange marks a rejection from the provider's token endpoint. The
	// wrapped error carries the provider's payload (oauthsdk.OAuth2Error).
	ErrExchange = errors.New("provider token exchange failed")
)
