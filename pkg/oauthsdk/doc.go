// Package oauthsdk is a minimal OAuth2 client for a single upstream
// identity provider. It covers the pieces of RFC 6749 the credential
// manager needs: building authorization-endpoint URLs, redeeming
// authorization codes, and refresh-token grants, all over form-encoded
// POSTs. It also carries the shared OAuth2 error type used by both this
// client and the service's own HTTP handlers.
package oauthsdk
