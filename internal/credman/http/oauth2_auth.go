package http

import (
	"net/http"

	"github.com/sunfall-labs/credman/internal/credman/service"
	"github.com/sunfall-labs/credman/pkg/httpx"
	"github.com/sunfall-labs/credman/pkg/oauthsdk"
	"github.com/sunfall-labs/credman/pkg/slogx"
)

// AuthStartHandler serves POST /v1/oauth2/auth
// Starts a new authorization flow and hands back the provider URL to visit.
type AuthStartHandler struct {
	FlowService *service.FlowService
}

// AuthStartResponse is the body returned when a flow is started.
type AuthStartResponse struct {
	RequestID        string `json:"request_id"`
	State            string `json:"state"`
	AuthorizationURL string `json:"authorization_url"`
}

// ServeHTTP godoc
//
//	@Summary		Start Authorization Flow
//	@Description	Generates PKCE artifacts, records a pending authorization request, and returns the provider authorization URL the resource owner should visit.
//	@Tags			OAuth2
//	@Produce		json
//	@Success		201	{object}	AuthStartResponse		"request_id, state, authorization_url"
//	@Failure		500	{object}	oauthsdk.OAuth2Error	"error, error_description"
//	@Router			/v1/oauth2/auth [post].
func (h *AuthStartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	res, err := h.FlowService.StartAuthorization(ctx)
	if err != nil {
		log.Error("failed to start authorization flow", "err", err)
		oauthsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, AuthStartResponse{
		RequestID:        res.RequestID.String(),
		State:            res.State,
		AuthorizationURL: res.AuthorizationURL,
	})
}
