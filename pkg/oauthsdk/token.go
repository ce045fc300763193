package oauthsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ExchangeAuthorizationCode redeems an authorization code (plus its PKCE
// verifier) for a token pair at the provider's token endpoint.
func (c *SDKClient) ExchangeAuthorizationCode(
	ctx context.Context,
	req CodeExchangeRequest,
) (*TokenResponse, error) {
	data := url.Values{
		"client_id":     {req.ClientID},
		"client_secret": {req.ClientSecret},
		"grant_type":    {req.GrantType},
		"code":          {req.Code},
		"code_verifier": {req.CodeVerifier},
	}
	if req.RedirectURI != "" {
		data.Set("redirect_uri", req.RedirectURI)
	}

	return c.requestToken(ctx, data)
}

// RefreshToken requests a new token pair using a refresh token.
func (c *SDKClient) RefreshToken(
	ctx context.Context,
	req RefreshRequest,
) (*TokenResponse, error) {
	data := url.Values{
		"client_id":     {req.ClientID},
		"client_secret": {req.ClientSecret},
		"grant_type":    {req.GrantType},
		"refresh_token": {req.RefreshToken},
	}

	return c.requestToken(ctx, data)
}

func (c *SDKClient) requestToken(ctx context.Context, data url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.TokenURL,
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseProviderError(resp.StatusCode, body)
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	tokenResp.Raw = body

	return &tokenResp, nil
}
