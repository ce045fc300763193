package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sunfall-labs/credman/internal/credman/service"
	"github.com/sunfall-labs/credman/pkg/httpx"
	"github.com/sunfall-labs/credman/pkg/oauthsdk"
	"github.com/sunfall-labs/credman/pkg/slogx"
)

// TokenHandler serves POST /v1/oauth2/token
// Accepts application/x-www-form-urlencoded per the RFC 6749 framework and
// redeems the most recently acknowledged authorization request.
type TokenHandler struct {
	FlowService *service.FlowService
}

// ServeHTTP godoc
//
//	@Summary		Token Exchange Endpoint
//	@Description	Exchanges the authorization code of the most recently acknowledged authorization request for a token pair, appends the pair to the token ledger, and returns the provider's response body verbatim.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			grant_type	formData	string					true	"Grant type forwarded to the provider"	Enums(authorization_code)
//	@Success		200			{object}	oauthsdk.TokenResponse	"provider response, passed through verbatim"
//	@Failure		400			{object}	oauthsdk.OAuth2Error	"error, error_description"
//	@Failure		409			{object}	oauthsdk.OAuth2Error	"error, error_description"
//	@Failure		502			{object}	oauthsdk.OAuth2Error	"error, error_description"
//	@Header			200			{string}	Cache-Control			"no-store"
//	@Header			200			{string}	Pragma					"no-cache"
//	@Router			/v1/oauth2/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	pair, err := h.FlowService.FinalizeExchange(ctx, grantType)
	if err != nil {
		writeExchangeError(w, log, err)
		return
	}

	httpx.WriteRawJSON(w, http.StatusOK, pair.Raw)
}

// writeExchangeError maps flow errors to RFC 6749 error documents. Shared by
// the token and refresh endpoints, which fail in the same ways.
func writeExchangeError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrMissingParameter):
		oauthsdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrNoPendingRequest):
		oauthsdk.NewOAuth2Error(
			http.StatusConflict,
			oauthsdk.ErrorCodeInvalidRequest,
			"no acknowledged authorization request to exchange",
		).WriteError(w)
	case errors.Is(err, service.ErrNoToken):
		oauthsdk.NewOAuth2Error(
			http.StatusNotFound,
			oauthsdk.ErrorCodeInvalidRequest,
			"token ledger is empty",
		).WriteError(w)
	case errors.Is(err, service.ErrExchange):
		var oerr *oauthsdk.OAuth2Error
		if errors.As(err, &oerr) {
			log.Warn("provider rejected the grant",
				"provider_status", oerr.StatusCode,
				"provider_error", oerr.Code,
				"provider_error_description", oerr.Description,
			)
		} else {
			log.Error("provider request failed", "err", err)
		}
		oauthsdk.NewOAuth2Error(
			http.StatusBadGateway,
			oauthsdk.ErrorCodeServerError,
			"the identity provider rejected the request",
		).WriteError(w)
	default:
		log.Error("token operation failed", "err", err)
		oauthsdk.ErrServerError.WriteError(w)
	}
}
