package http

import (
	"net/http"
	"strings"

	"github.com/sunfall-labs/credman/internal/credman/service"
	"github.com/sunfall-labs/credman/pkg/httpx"
	"github.com/sunfall-labs/credman/pkg/oauthsdk"
	"github.com/sunfall-labs/credman/pkg/slogx"
)

// RefreshHandler serves POST /v1/oauth2/token/refresh
// Manually triggers the same refresh path the weekly scheduler runs.
type RefreshHandler struct {
	FlowService *service.FlowService

	// DefaultGrantType is used when the request omits grant_type.
	DefaultGrantType string
}

// ServeHTTP godoc
//
//	@Summary		Token Refresh Endpoint
//	@Description	Redeems the current refresh token for a new token pair, appends the pair to the token ledger, and returns the provider's response body verbatim. Uses the configured grant type when none is supplied.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			grant_type	formData	string					false	"Grant type forwarded to the provider (defaults to the configured refresh grant type)"
//	@Success		200			{object}	oauthsdk.TokenResponse	"provider response, passed through verbatim"
//	@Failure		400			{object}	oauthsdk.OAuth2Error	"error, error_description"
//	@Failure		404			{object}	oauthsdk.OAuth2Error	"error, error_description"
//	@Failure		502			{object}	oauthsdk.OAuth2Error	"error, error_description"
//	@Header			200			{string}	Cache-Control			"no-store"
//	@Header			200			{string}	Pragma					"no-cache"
//	@Router			/v1/oauth2/token/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		oauthsdk.ErrInvalidContentType.WriteError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		oauthsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	grantType := strings.TrimSpace(r.Form.Get("grant_type"))
	if grantType == "" {
		grantType = h.DefaultGrantType
	}

	pair, err := h.FlowService.RefreshCurrentToken(ctx, grantType)
	if err != nil {
		writeExchangeError(w, log, err)
		return
	}

	httpx.WriteRawJSON(w, http.StatusOK, pair.Raw)
}
