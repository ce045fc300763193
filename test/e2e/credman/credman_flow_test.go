package credman_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFullAuthorizationFlow drives the complete credential lifecycle over
// HTTP: start a flow, complete the provider callback, exchange the code,
// then refresh the issued token.
func TestFullAuthorizationFlow(t *testing.T) {
	baseURL, provider := setupService(t)

	// 1. Start the flow
	state := startFlow(t, baseURL)

	// 2. Provider redirects back with a code
	resp := completeCallback(t, baseURL, "provider-code-1", state)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var echo struct {
		Code  string `json:"code"`
		State string `json:"state"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&echo))
	require.Equal(t, "provider-code-1", echo.Code)
	require.Equal(t, state, echo.State)

	// 3. Exchange the code for tokens
	tokenResp := postForm(t, baseURL, "/v1/oauth2/token", url.Values{
		"grant_type": {"authorization_code"},
	})
	defer tokenResp.Body.Close()
	require.Equal(t, http.StatusOK, tokenResp.StatusCode)
	require.Equal(t, "no-store", tokenResp.Header.Get("Cache-Control"))

	body, err := io.ReadAll(tokenResp.Body)
	require.NoError(t, err)

	// The provider body passes through verbatim, extra fields included
	var issued map[string]any
	require.NoError(t, json.Unmarshal(body, &issued))
	require.Equal(t, "access-1", issued["access_token"])
	require.Equal(t, "refresh-1", issued["refresh_token"])
	require.Equal(t, "stubbed", issued["provider_tag"])

	// The provider saw the stored code and a well-formed verifier
	form := provider.lastForm(t)
	require.Equal(t, "authorization_code", form.Get("grant_type"))
	require.Equal(t, "provider-code-1", form.Get("code"))
	require.Equal(t, testClientID, form.Get("client_id"))
	require.Equal(t, testClientSecret, form.Get("client_secret"))

	verifier := form.Get("code_verifier")
	require.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9\-._~]+$`), verifier)
	require.Greater(t, len(verifier), 43)

	// 4. Refresh the current token
	refreshResp := postForm(t, baseURL, "/v1/oauth2/token/refresh", url.Values{})
	defer refreshResp.Body.Close()
	require.Equal(t, http.StatusOK, refreshResp.StatusCode)

	var refreshed map[string]any
	require.NoError(t, json.NewDecoder(refreshResp.Body).Decode(&refreshed))
	require.Equal(t, "access-2", refreshed["access_token"])
	require.Equal(t, "refresh-2", refreshed["refresh_token"])

	// The refresh used the previously issued refresh token
	form = provider.lastForm(t)
	require.Equal(t, "refresh_token", form.Get("grant_type"))
	require.Equal(t, "refresh-1", form.Get("refresh_token"))
}

// TestRefreshChains verifies that consecutive refreshes each redeem the
// token issued by the previous one.
func TestRefreshChains(t *testing.T) {
	baseURL, provider := setupService(t)

	state := startFlow(t, baseURL)
	resp := completeCallback(t, baseURL, "chain-code", state)
	resp.Body.Close()

	tokenResp := postForm(t, baseURL, "/v1/oauth2/token", url.Values{
		"grant_type": {"authorization_code"},
	})
	tokenResp.Body.Close()
	require.Equal(t, http.StatusOK, tokenResp.StatusCode)

	for i := 0; i < 2; i++ {
		refreshResp := postForm(t, baseURL, "/v1/oauth2/token/refresh", url.Values{})
		refreshResp.Body.Close()
		require.Equal(t, http.StatusOK, refreshResp.StatusCode)
	}

	// refresh #2 must have redeemed the token issued by refresh #1
	form := provider.lastForm(t)
	require.Equal(t, "refresh-2", form.Get("refresh_token"))
}

// TestLatestAcknowledgedWins verifies that when several flows complete, the
// exchange redeems the most recently acknowledged one.
func TestLatestAcknowledgedWins(t *testing.T) {
	baseURL, provider := setupService(t)

	stateA := startFlow(t, baseURL)
	stateB := startFlow(t, baseURL)

	respA := completeCallback(t, baseURL, "code-a", stateA)
	respA.Body.Close()
	respB := completeCallback(t, baseURL, "code-b", stateB)
	respB.Body.Close()

	tokenResp := postForm(t, baseURL, "/v1/oauth2/token", url.Values{
		"grant_type": {"authorization_code"},
	})
	tokenResp.Body.Close()
	require.Equal(t, http.StatusOK, tokenResp.StatusCode)

	form := provider.lastForm(t)
	require.Equal(t, "code-b", form.Get("code"))
}
