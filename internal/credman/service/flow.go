package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sunfall-labs/credman/internal/credman/domain"
	"github.com/sunfall-labs/credman/internal/credman/store"
	"github.com/sunfall-labs/credman/pkg/cryptox"
	"github.com/sunfall-labs/credman/pkg/idx"
	"github.com/sunfall-labs/credman/pkg/oauthsdk"
)

// Exchanger is the surface of the provider client the flow needs.
// *oauthsdk.SDKClient satisfies it; tests substitute a stub.
type Exchanger interface {
	BuildAuthorizeURL(p oauthsdk.AuthorizeParams) string
	ExchangeAuthorizationCode(ctx context.Context, req oauthsdk.CodeExchangeRequest) (*oauthsdk.TokenResponse, error)
	RefreshToken(ctx context.Context, req oauthsdk.RefreshRequest) (*oauthsdk.TokenResponse, error)
}

// FlowService drives the Authorization Code + PKCE flow end to end:
// starting flows, correlating provider callbacks, redeeming codes and
// refreshing the current token. All flow and token state lives in the
// store; nothing is cached in memory between operations.
type FlowService struct {
	Store    store.Store
	Provider Exchanger
	Logger   *slog.Logger

	ClientID     string
	ClientSecret string
	RedirectURI  string // optional; omitted from provider requests when empty
	StateSecret  string // static suffix appended to state tokens

	// Now is the clock used for verifier suffixes and row timestamps.
	// Defaults to time.Now when nil; injectable for tests.
	Now func() time.Time
}

func (s *FlowService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// StartAuthorizationResult is what a caller needs to send the resource
// owner to the provider.
type StartAuthorizationResult struct {
	RequestID        idx.ID
	State            string
	AuthorizationURL string
}

// StartAuthorization mints PKCE artifacts, persists a PENDING authorization
// request and returns the provider authorize URL. The row is durable before
// the URL is handed out, so a restart cannot orphan the flow.
func (s *FlowService) StartAuthorization(ctx context.Context) (StartAuthorizationResult, error) {
	now := s.now()

	verifier, err := GenerateCodeVerifier(now)
	if err != nil {
		return StartAuthorizationResult{}, err
	}

	state, err := GenerateState(s.StateSecret)
	if err != nil {
		return StartAuthorizationResult{}, err
	}

	req := domain.AuthorizationRequest{
		ID:           idx.NewAt(now),
		CodeVerifier: verifier,
		State:        state,
		Status:       domain.AuthorizationRequestPending,
		CreatedAt:    now,
	}

	if err := s.Store.AuthorizationRequests().CreateAuthorizationRequest(ctx, req); err != nil {
		return StartAuthorizationResult{}, fmt.Errorf("persist authorization request: %w", err)
	}

	authorizeURL := s.Provider.BuildAuthorizeURL(oauthsdk.AuthorizeParams{
		ClientID:            s.ClientID,
		State:               state,
		RedirectURI:         s.RedirectURI,
		CodeChallenge:       verifier, // plain method: challenge == verifier
		CodeChallengeMethod: CodeChallengeMethod,
	})

	s.Logger.Info("authorization flow started", "request_id", req.ID)

	return StartAuthorizationResult{
		RequestID:        req.ID,
		State:            state,
		AuthorizationURL: authorizeURL,
	}, nil
}

// HandleCallback processes the provider redirect: it validates presence of
// code and state, then stores the code against the PENDING request matching
// the state. A state with no pending request is a correlation failure.
func (s *FlowService) HandleCallback(ctx context.Context, code, state string) error {
	if code == "" {
		return fmt.Errorf("%w: code", ErrMissingParameter)
	}
	if state == "" {
		return fmt.Errorf("%w: state", ErrMissingParameter)
	}

	err := s.Store.AuthorizationRequests().AcknowledgeAuthorizationRequest(ctx, state, code, s.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Logger.Warn("callback correlation failed", "state_fp", cryptox.FingerprintToken(state))
			return ErrCorrelation
		}
		return fmt.Errorf("acknowledge authorization request: %w", err)
	}

	s.Logger.Info("authorization callback acknowledged", "state_fp", cryptox.FingerprintToken(state))
	return nil
}

// FinalizeExchange redeems the most recently acknowledged authorization
// request for a token pair and appends the pair to the token ledger. The
// correlation is global rather than per flow: the latest acknowledged
// request is the one exchanged.
func (s *FlowService) FinalizeExchange(ctx context.Context, grantType string) (domain.TokenPair, error) {
	if grantType == "" {
		return domain.TokenPair{}, fmt.Errorf("%w: grant_type", ErrMissingParameter)
	}

	req, err := s.Store.AuthorizationRequests().LatestAcknowledgedAuthorizationRequest(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrNoPendingRequest
		}
		return domain.TokenPair{}, fmt.Errorf("load acknowledged authorization request: %w", err)
	}

	resp, err := s.Provider.ExchangeAuthorizationCode(ctx, oauthsdk.CodeExchangeRequest{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		GrantType:    grantType,
		Code:         *req.AuthorizationCode,
		CodeVerifier: req.CodeVerifier,
		RedirectURI:  s.RedirectURI,
	})
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("%w: %w", ErrExchange, err)
	}

	pair, rec := s.recordFromResponse(resp)
	if err := s.Store.Tokens().AppendToken(ctx, rec); err != nil {
		return domain.TokenPair{}, fmt.Errorf("persist token pair: %w", err)
	}

	s.Logger.Info("authorization code exchanged",
		"request_id", req.ID,
		"token_id", rec.ID,
		"access_token_fp", cryptox.FingerprintToken(pair.AccessToken),
	)

	return pair, nil
}

// RefreshCurrentToken redeems the ledger's current refresh token for a new
// pair and appends it. The superseded record stays in the ledger untouched.
func (s *FlowService) RefreshCurrentToken(ctx context.Context, grantType string) (domain.TokenPair, error) {
	if grantType == "" {
		return domain.TokenPair{}, fmt.Errorf("%w: grant_type", ErrMissingParameter)
	}

	current, err := s.Store.Tokens().CurrentToken(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrNoToken
		}
		return domain.TokenPair{}, fmt.Errorf("load current token: %w", err)
	}

	resp, err := s.Provider.RefreshToken(ctx, oauthsdk.RefreshRequest{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		GrantType:    grantType,
		RefreshToken: current.RefreshToken,
	})
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("%w: %w", ErrExchange, err)
	}

	pair, rec := s.recordFromResponse(resp)
	if err := s.Store.Tokens().AppendToken(ctx, rec); err != nil {
		return domain.TokenPair{}, fmt.Errorf("persist token pair: %w", err)
	}

	s.Logger.Info("token refreshed",
		"superseded_token_id", current.ID,
		"token_id", rec.ID,
		"access_token_fp", cryptox.FingerprintToken(pair.AccessToken),
	)

	return pair, nil
}

func (s *FlowService) recordFromResponse(resp *oauthsdk.TokenResponse) (domain.TokenPair, domain.TokenRecord) {
	now := s.now()

	pair := domain.TokenPair{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
		Raw:          resp.Raw,
	}

	rec := domain.TokenRecord{
		ID:           idx.NewAt(now),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    accessTokenExpiry(resp.AccessToken),
		CreatedAt:    now,
	}

	return pair, rec
}

// accessTokenExpiry extracts the exp claim from a JWT access token without
// verifying its signature (the provider signs with keys we don't hold).
// Returns nil for opaque tokens or tokens without exp.
func accessTokenExpiry(accessToken string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}

	t := exp.Time.UTC()
	return &t
}
