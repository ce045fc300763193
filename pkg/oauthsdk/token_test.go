package oauthsdk_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunfall-labs/credman/pkg/oauthsdk"
)

func TestBuildAuthorizeURL(t *testing.T) {
	t.Parallel()

	client := oauthsdk.NewSDKClient("https://idp.example.com/oauth2/authorize", "https://idp.example.com/oauth2/token")

	raw := client.BuildAuthorizeURL(oauthsdk.AuthorizeParams{
		ClientID:            "client-1",
		State:               "abc123suffix",
		RedirectURI:         "https://app.example.com/callback",
		CodeChallenge:       "the-verifier",
		CodeChallengeMethod: "plain",
	})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "/oauth2/authorize", u.Path)

	q := u.Query()
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "client-1", q.Get("client_id"))
	require.Equal(t, "abc123suffix", q.Get("state"))
	require.Equal(t, "the-verifier", q.Get("code_challenge"))
	require.Equal(t, "plain", q.Get("code_challenge_method"))
	require.Equal(t, "https://app.example.com/callback", q.Get("redirect_uri"))
}

func TestBuildAuthorizeURLOmitsEmptyRedirect(t *testing.T) {
	t.Parallel()

	client := oauthsdk.NewSDKClient("https://idp.example.com/authorize", "https://idp.example.com/token")

	raw := client.BuildAuthorizeURL(oauthsdk.AuthorizeParams{
		ClientID:            "client-1",
		State:               "st",
		CodeChallenge:       "cc",
		CodeChallengeMethod: "plain",
	})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.False(t, u.Query().Has("redirect_uri"))
}

func TestExchangeAuthorizationCode(t *testing.T) {
	t.Parallel()

	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","refresh_token":"rt-1","token_type":"Bearer","expires_in":3600,"extra":"kept"}`))
	}))
	t.Cleanup(srv.Close)

	client := oauthsdk.NewSDKClient(srv.URL+"/authorize", srv.URL)

	resp, err := client.ExchangeAuthorizationCode(context.Background(), oauthsdk.CodeExchangeRequest{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		GrantType:    "authorization_code",
		Code:         "code-1",
		CodeVerifier: "verifier-1",
		RedirectURI:  "https://app.example.com/callback",
	})
	require.NoError(t, err)

	require.Equal(t, "client-1", gotForm.Get("client_id"))
	require.Equal(t, "secret-1", gotForm.Get("client_secret"))
	require.Equal(t, "authorization_code", gotForm.Get("grant_type"))
	require.Equal(t, "code-1", gotForm.Get("code"))
	require.Equal(t, "verifier-1", gotForm.Get("code_verifier"))
	require.Equal(t, "https://app.example.com/callback", gotForm.Get("redirect_uri"))

	require.Equal(t, "at-1", resp.AccessToken)
	require.Equal(t, "rt-1", resp.RefreshToken)
	require.Equal(t, "Bearer", resp.TokenType)
	require.EqualValues(t, 3600, resp.ExpiresIn)

	// Raw must preserve fields the typed struct doesn't model
	require.Contains(t, string(resp.Raw), `"extra":"kept"`)
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-2","refresh_token":"rt-2","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)

	client := oauthsdk.NewSDKClient(srv.URL+"/authorize", srv.URL)

	resp, err := client.RefreshToken(context.Background(), oauthsdk.RefreshRequest{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		GrantType:    "refresh_token",
		RefreshToken: "rt-1",
	})
	require.NoError(t, err)

	require.Equal(t, "refresh_token", gotForm.Get("grant_type"))
	require.Equal(t, "rt-1", gotForm.Get("refresh_token"))
	require.Equal(t, "at-2", resp.AccessToken)
	require.Equal(t, "rt-2", resp.RefreshToken)
}

func TestProviderErrorParsing(t *testing.T) {
	t.Parallel()

	t.Run("rfc6749 error document", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"code expired"}`))
		}))
		t.Cleanup(srv.Close)

		client := oauthsdk.NewSDKClient(srv.URL+"/authorize", srv.URL)

		_, err := client.RefreshToken(context.Background(), oauthsdk.RefreshRequest{
			ClientID: "c", GrantType: "refresh_token", RefreshToken: "rt",
		})
		require.Error(t, err)

		var oauthErr *oauthsdk.OAuth2Error
		require.ErrorAs(t, err, &oauthErr)
		require.Equal(t, "invalid_grant", oauthErr.Code)
		require.Equal(t, "code expired", oauthErr.Description)
		require.Equal(t, http.StatusBadRequest, oauthErr.StatusCode)
		require.Contains(t, string(oauthErr.Body), "invalid_grant")
	})

	t.Run("non-oauth error body still surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream exploded"))
		}))
		t.Cleanup(srv.Close)

		client := oauthsdk.NewSDKClient(srv.URL+"/authorize", srv.URL)

		_, err := client.RefreshToken(context.Background(), oauthsdk.RefreshRequest{
			ClientID: "c", GrantType: "refresh_token", RefreshToken: "rt",
		})

		var oauthErr *oauthsdk.OAuth2Error
		require.ErrorAs(t, err, &oauthErr)
		require.Equal(t, http.StatusBadGateway, oauthErr.StatusCode)
		require.Equal(t, oauthsdk.ErrorCodeServerError, oauthErr.Code)
		require.Equal(t, []byte("upstream exploded"), oauthErr.Body)
	})
}
