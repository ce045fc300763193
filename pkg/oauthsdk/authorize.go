package oauthsdk

import "net/url"

// BuildAuthorizeURL assembles the provider authorization endpoint URL for
// the Authorization Code grant. All parameter values are query-escaped.
func (c *SDKClient) BuildAuthorizeURL(p AuthorizeParams) string {
	q := url.Values{
		"response_type":         {"code"},
		"client_id":             {p.ClientID},
		"state":                 {p.State},
		"code_challenge":        {p.CodeChallenge},
		"code_challenge_method": {p.CodeChallengeMethod},
	}
	if p.RedirectURI != "" {
		q.Set("redirect_uri", p.RedirectURI)
	}

	return c.AuthorizeURL + "?" + q.Encode()
}
