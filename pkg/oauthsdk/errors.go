package oauthsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sunfall-labs/credman/pkg/httpx"
)

// OAuth2 error codes per RFC 6749.
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidClient        = "invalid_client"
	ErrorCodeInvalidGrant         = "invalid_grant"
	ErrorCodeUnsupportedGrantType = "unsupported_grant_type"
	ErrorCodeServerError          = "server_error"
	ErrorCodeAccessDenied         = "access_denied"
)

// OAuth2Error represents a standard OAuth2 error document per RFC 6749.
// It implements the error interface and is used both by the SDK client
// (to represent provider rejections) and by HTTP handlers (to write
// compliant error responses). Body holds the provider's verbatim error
// payload when the error originated upstream.
type OAuth2Error struct {
	// StatusCode is the HTTP status code associated with this error
	StatusCode int `json:"-"`

	// Code is the OAuth2 error code (e.g. "invalid_request", "invalid_grant")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`

	// Body is the raw upstream response body, when one exists
	Body []byte `json:"-"`
}

// Error implements the error interface.
func (e *OAuth2Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this OAuth2Error to an HTTP response writer.
func (e *OAuth2Error) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// Predefined OAuth2 errors for the HTTP surface.
var (
	// ErrInvalidRequest is returned when the request is missing a required
	// parameter or is otherwise malformed.
	ErrInvalidRequest = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrAccessDenied is returned when a callback cannot be correlated with
	// an outstanding authorization request.
	ErrAccessDenied = &OAuth2Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeAccessDenied,
		Description: "access denied",
	}

	// ErrServerError is returned on unexpected internal failures.
	ErrServerError = &OAuth2Error{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	// ErrInvalidContentType is returned when the Content-Type header is not
	// application/x-www-form-urlencoded.
	ErrInvalidContentType = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "content-type must be application/x-www-form-urlencoded",
	}

	// ErrInvalidFormBody is returned when the form body cannot be parsed.
	ErrInvalidFormBody = &OAuth2Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "invalid form body",
	}
)

// NewOAuth2Error creates an OAuth2Error with the given status code, error
// code, and description.
func NewOAuth2Error(statusCode int, code, description string) *OAuth2Error {
	return &OAuth2Error{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// parseProviderError converts a non-2xx provider response into an
// *OAuth2Error, preserving the raw body. Providers that don't emit RFC 6749
// error documents still get a usable error with the body attached.
func parseProviderError(statusCode int, body []byte) *OAuth2Error {
	var doc struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &doc); err == nil && doc.Error != "" {
		return &OAuth2Error{
			StatusCode:  statusCode,
			Code:        doc.Error,
			Description: doc.ErrorDescription,
			Body:        body,
		}
	}

	return &OAuth2Error{
		StatusCode:  statusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", statusCode, http.StatusText(statusCode)),
		Body:        body,
	}
}
