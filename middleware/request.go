package middleware

import (
	"net/http"

	sessauth "github.com/varekai/sessauth"
)

type httpRequest struct {
	r *http.Request
}

// WrapRequest adapts an inbound *http.Request to the engine's [sessauth.Request]
// capability.
func WrapRequest(r *http.Request) sessauth.Request {
	return httpRequest{r: r}
}

// QueryParam reports the first value of a query parameter; a present-but-
// empty parameter still counts as present.
func (h httpRequest) QueryParam(name string) (string, bool) {
	values, ok := h.r.URL.Query()[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Cookie reports the first request cookie with the given name.
func (h httpRequest) Cookie(name string) (string, bool) {
	c, err := h.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// Header reports the first value of a header, matched case-insensitively
// (net/http canonicalizes header names on both sides).
func (h httpRequest) Header(name string) (string, bool) {
	values := h.r.Header.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}
