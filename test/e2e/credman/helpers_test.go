package credman_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	credmanhttp "github.com/sunfall-labs/credman/internal/credman/http"
	"github.com/sunfall-labs/credman/internal/credman/service"
	"github.com/sunfall-labs/credman/internal/credman/store/drivers/sqlite"
	"github.com/sunfall-labs/credman/pkg/cryptox"
	"github.com/sunfall-labs/credman/pkg/oauthsdk"
)

/*
 * Common helpers for credential manager end-to-end tests. The service runs
 * in-process behind httptest; the identity provider is a stub HTTP server
 * speaking the RFC 6749 token endpoint protocol.
 */

const (
	testClientID     = "e2e-client"
	testClientSecret = "e2e-secret"
	testStateSecret  = "-e2e"
)

// providerStub mimics the third-party identity provider's token endpoint.
// It records the forms it receives so tests can assert on the wire format.
type providerStub struct {
	mu    sync.Mutex
	forms []url.Values

	// rejectNext makes the next token request fail with invalid_grant.
	rejectNext bool

	issued int
}

func (p *providerStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		p.mu.Lock()
		p.forms = append(p.forms, r.PostForm)
		reject := p.rejectNext
		p.rejectNext = false
		p.issued++
		n := p.issued
		p.mu.Unlock()

		if reject {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_grant",
				"error_description": "the grant was revoked",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-" + strconv.Itoa(n),
			"refresh_token": "refresh-" + strconv.Itoa(n),
			"token_type":    "Bearer",
			"expires_in":    3600,
			"provider_tag":  "stubbed",
		})
	})
	return mux
}

func (p *providerStub) lastForm(t *testing.T) url.Values {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.forms, "provider received no token requests")
	return p.forms[len(p.forms)-1]
}

// setupService wires a full in-process service around an in-memory store and
// the given provider stub, and returns its base URL.
func setupService(t *testing.T) (string, *providerStub) {
	t.Helper()

	provider := &providerStub{}
	providerSrv := httptest.NewServer(provider.handler())
	t.Cleanup(providerSrv.Close)

	sealer, err := cryptox.NewSealer([]byte("e2e-master-key"))
	require.NoError(t, err)

	st, err := sqlite.NewStore(":memory:", sealer)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	flow := &service.FlowService{
		Store:        st,
		Provider:     oauthsdk.NewSDKClient(providerSrv.URL+"/authorize", providerSrv.URL+"/token"),
		Logger:       logger,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RedirectURI:  "http://localhost:8080/v1/oauth2/auth/callback",
		StateSecret:  testStateSecret,
	}

	router := credmanhttp.NewRouter("e2e", st, logger)
	router.FlowService = flow
	router.RefreshGrantType = "refresh_token"
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv.URL, provider
}

// startFlow drives POST /v1/oauth2/auth and returns the issued state.
func startFlow(t *testing.T, baseURL string) string {
	t.Helper()

	resp, err := http.Post(baseURL+"/v1/oauth2/auth", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		RequestID        string `json:"request_id"`
		State            string `json:"state"`
		AuthorizationURL string `json:"authorization_url"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.RequestID)
	require.NotEmpty(t, body.AuthorizationURL)
	require.True(t, strings.HasSuffix(body.State, testStateSecret))

	return body.State
}

// completeCallback drives the provider redirect for the given state.
func completeCallback(t *testing.T, baseURL, code, state string) *http.Response {
	t.Helper()

	u := baseURL + "/v1/oauth2/auth/callback?code=" + url.QueryEscape(code) +
		"&state=" + url.QueryEscape(state)

	resp, err := http.Get(u)
	require.NoError(t, err)
	return resp
}

// postForm drives a form POST against the service.
func postForm(t *testing.T, baseURL, path string, form url.Values) *http.Response {
	t.Helper()

	resp, err := http.Post(
		baseURL+path,
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	require.NoError(t, err)
	return resp
}
