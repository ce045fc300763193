package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sunfall-labs/credman/internal/credman/service"
	"github.com/sunfall-labs/credman/internal/credman/store"
	"github.com/sunfall-labs/credman/pkg/httpx"
	"github.com/sunfall-labs/credman/pkg/slogx"

	_ "github.com/sunfall-labs/credman/api/credman" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	FlowService      *service.FlowService
	RefreshGrantType string
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOAuth2()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Credman OAuth2 Credential Manager API
//	@version		0.1.0
//	@description	Manages the OAuth2 credential lifecycle for a single registered client against a third-party identity provider using the Authorization Code grant with PKCE.
//	@description
//	@description	Authorization flows, provider callbacks, and issued token pairs are persisted in an append-only ledger; a background scheduler refreshes the current token weekly.
//
//	@contact.name	Sunfall Labs
//	@contact.url	https://github.com/sunfall-labs/credman
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOAuth2() {
	// POST /auth - moderate rate limit (starts a flow, writes a row)
	authHandler := &AuthStartHandler{FlowService: r.FlowService}
	r.Mux.Handle("POST /v1/oauth2/auth",
		httpx.Chain(authHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /auth/callback - lenient rate limit (provider redirects land here)
	callbackHandler := &CallbackHandler{FlowService: r.FlowService}
	r.Mux.Handle("GET /v1/oauth2/auth/callback",
		httpx.Chain(callbackHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /token - strict rate limit (redeems a single-use code)
	tokenHandler := &TokenHandler{FlowService: r.FlowService}
	r.Mux.Handle("POST /v1/oauth2/token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /token/refresh - strict rate limit (each call burns the current refresh token)
	refreshHandler := &RefreshHandler{
		FlowService:      r.FlowService,
		DefaultGrantType: r.RefreshGrantType,
	}
	r.Mux.Handle("POST /v1/oauth2/token/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
