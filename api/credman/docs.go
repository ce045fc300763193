// Package credman registers the generated Swagger specification for the
// credential manager API with the swag runtime so http-swagger can serve it.
package credman

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Sunfall Labs",
            "url": "https://github.com/sunfall-labs/credman"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "description": "Liveness probe endpoint returning basic service health status, uptime, and version information",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {"$ref": "#/definitions/http.HealthResponse"}
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe endpoint returning service health status and checks for critical dependencies",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {"$ref": "#/definitions/http.HealthResponse"}
                    },
                    "503": {
                        "description": "status, uptime, version, checks - service not ready",
                        "schema": {"$ref": "#/definitions/http.HealthResponse"}
                    }
                }
            }
        },
        "/v1/oauth2/auth": {
            "post": {
                "description": "Generates PKCE artifacts, records a pending authorization request, and returns the provider authorization URL the resource owner should visit.",
                "produces": ["application/json"],
                "tags": ["OAuth2"],
                "summary": "Start Authorization Flow",
                "responses": {
                    "201": {
                        "description": "request_id, state, authorization_url",
                        "schema": {"$ref": "#/definitions/http.AuthStartResponse"}
                    },
                    "500": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/oauthsdk.OAuth2Error"}
                    }
                }
            }
        },
        "/v1/oauth2/auth/callback": {
            "get": {
                "description": "Receives the provider redirect carrying the authorization code and anti-CSRF state, and acknowledges the matching pending authorization request.",
                "produces": ["application/json"],
                "tags": ["OAuth2"],
                "summary": "Authorization Callback Endpoint",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Authorization code issued by the provider",
                        "name": "code",
                        "in": "query",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "State token issued when the flow was started",
                        "name": "state",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "code, state",
                        "schema": {"$ref": "#/definitions/http.CallbackResponse"}
                    },
                    "400": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/oauthsdk.OAuth2Error"}
                    },
                    "401": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/oauthsdk.OAuth2Error"}
                    },
                    "500": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/oauthsdk.OAuth2Error"}
                    }
                }
            }
        },
        "/v1/oauth2/token": {
            "post": {
                "description": "Exchanges the authorization code of the most recently acknowledged authorization request for a token pair, appends the pair to the token ledger, and returns the provider's response body verbatim.",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["OAuth2"],
                "summary": "Token Exchange Endpoint",
                "parameters": [
                    {
                        "enum": ["authorization_code"],
                        "type": "string",
                        "description": "Grant type forwarded to the provider",
                        "name": "grant_type",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "provider response, passed through verbatim",
                        "schema": {"$ref": "#/definitions/oauthsdk.TokenResponse"},
                        "headers": {
                            "Cache-Control": {"type": "string", "description": "no-store"},
                            "Pragma": {"type": "string", "description": "no-cache"}
                        }
                    },
                    "400": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/oauthsdk.OAuth2Error"}
                    },
                    "409": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/oauthsdk.OAuth2Error"}
                    },
                    "502": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/oauthsdk.OAuth2Error"}
                    }
                }
            }
        },
        "/v1/oauth2/token/refresh": {
            "post": {
                "description": "Redeems the current refresh token for a new token pair, appends the pair to the token ledger, and returns the provider's response body verbatim. Uses the configured grant type when none is supplied.",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["OAuth2"],
                "summary": "Token Refresh Endpoint",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Grant type forwarded to the provider (defaults to the configured refresh grant type)",
                        "name": "grant_type",
                        "in": "formData"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "provider response, passed through verbatim",
                        "schema": {"$ref": "#/definitions/oauthsdk.TokenResponse"},
                        "headers": {
                            "Cache-Control": {"type": "string", "description": "no-store"},
                            "Pragma": {"type": "string", "description": "no-cache"}
                        }
                    },
                    "400": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/oauthsdk.OAuth2Error"}
                    },
                    "404": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/oauthsdk.OAuth2Error"}
                    },
                    "502": {
                        "description": "error, error_description",
                        "schema": {"$ref": "#/definitions/oauthsdk.OAuth2Error"}
                    }
                }
            }
        }
    },
    "definitions": {
        "http.AuthStartResponse": {
            "type": "object",
            "properties": {
                "authorization_url": {"type": "string"},
                "request_id": {"type": "string"},
                "state": {"type": "string"}
            }
        },
        "http.CallbackResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "state": {"type": "string"}
            }
        },
        "http.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"}
            }
        },
        "http.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/http.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "oauthsdk.OAuth2Error": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        },
        "oauthsdk.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "refresh_token": {"type": "string"},
                "token_type": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Credman OAuth2 Credential Manager API",
	Description:      "Manages the OAuth2 credential lifecycle for a single registered client against a third-party identity provider using the Authorization Code grant with PKCE.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
