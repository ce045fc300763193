package oauthsdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient talks to one upstream OAuth2 provider. AuthorizeURL and
// TokenURL are the provider's absolute endpoint URLs.
type SDKClient struct {
	AuthorizeURL string
	TokenURL     string
	HTTPClient   *http.Client
}

// NewSDKClient creates a provider client with a sane request timeout.
func NewSDKClient(authorizeURL, tokenURL string) *SDKClient {
	return &SDKClient{
		AuthorizeURL: strings.TrimSuffix(authorizeURL, "/"),
		TokenURL:     strings.TrimSuffix(tokenURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}
