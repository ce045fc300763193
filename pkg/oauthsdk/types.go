package oauthsdk

import "encoding/json"

// TokenResponse is the provider's token endpoint response per RFC 6749 §5.1.
// Raw preserves the exact response body so callers can pass it through to
// their own clients without re-marshalling.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`

	Raw json.RawMessage `json:"-"`
}

// AuthorizeParams carries the query parameters for an authorization
// endpoint URL (RFC 6749 §4.1.1 with the RFC 7636 PKCE extension).
type AuthorizeParams struct {
	ClientID            string
	State               string
	RedirectURI         string // optional; omitted from the URL when empty
	CodeChallenge       string
	CodeChallengeMethod string
}

// CodeExchangeRequest carries the form fields for redeeming an
// authorization code (RFC 6749 §4.1.3).
type CodeExchangeRequest struct {
	ClientID     string
	ClientSecret string
	GrantType    string
	Code         string
	CodeVerifier string
	RedirectURI  string // optional; omitted from the form when empty
}

// RefreshRequest carries the form fields for a refresh-token grant
// (RFC 6749 §6). GrantType is configurable because some providers accept
// non-standard values for custom refresh flows.
type RefreshRequest struct {
	ClientID     string
	ClientSecret string
	GrantType    string
	RefreshToken string
}
