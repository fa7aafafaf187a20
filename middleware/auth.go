package middleware

import (
	"errors"
	"net/http"

	"livechat/auth"
	"livechat/logging"
)

// BearerTransport attaches the stored token to every outgoing request.
// Requests go out unauthenticated when no token is stored (sign-in, sign-up).
type BearerTransport struct {
	Credentials auth.CredentialStore
	Base        http.RoundTripper
}

func (t *BearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	token, err := t.Credentials.Token(r.Context())
	if err != nil && !errors.Is(err, auth.ErrMissingToken) {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "api - credentials - token read failed", logging.Err(err))
		if r.Body != nil {
			r.Body.Close()
		}
		return nil, err
	}
	if token != "" && r.Header.Get("Authorization") == "" {
		r = r.Clone(r.Context())
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return base(t.Base).RoundTrip(r)
}

func base(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}
