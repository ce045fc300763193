package http

import (
	"errors"
	"net/http"

	"github.com/sunfall-labs/credman/internal/credman/service"
	"github.com/sunfall-labs/credman/pkg/httpx"
	"github.com/sunfall-labs/credman/pkg/oauthsdk"
	"github.com/sunfall-labs/credman/pkg/slogx"
)

// CallbackHandler serves GET /v1/oauth2/auth/callback
// The provider redirects the resource owner here after consent.
type CallbackHandler struct {
	FlowService *service.FlowService
}

// CallbackResponse echoes the parameters accepted from the provider.
type CallbackResponse struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// ServeHTTP godoc
//
//	@Summary		Authorization Callback Endpoint
//	@Description	Receives the provider redirect carrying the authorization code and anti-CSRF state, and acknowledges the matching pending authorization request.
//	@Tags			OAuth2
//	@Produce		json
//	@Param			code	query		string					true	"Authorization code issued by the provider"
//	@Param			state	query		string					true	"State token issued when the flow was started"
//	@Success		200		{object}	CallbackResponse		"code, state"
//	@Failure		400		{object}	oauthsdk.OAuth2Error	"error, error_description"
//	@Failure		401		{object}	oauthsdk.OAuth2Error	"error, error_description"
//	@Failure		500		{object}	oauthsdk.OAuth2Error	"error, error_description"
//	@Router			/v1/oauth2/auth/callback [get].
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	if err := h.FlowService.HandleCallback(ctx, code, state); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingParameter):
			oauthsdk.ErrInvalidRequest.WriteError(w)
		case errors.Is(err, service.ErrCorrelation):
			oauthsdk.ErrAccessDenied.WriteError(w)
		default:
			log.Error("callback handling failed", "err", err)
			oauthsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, CallbackResponse{
		Code:  code,
		State: state,
	})
}
