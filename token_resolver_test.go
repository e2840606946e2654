package sessauth

import (
	"strings"
	"testing"
)

// fakeRequest is a map-backed [Request] for resolver tests.
type fakeRequest struct {
	query   map[string]string
	cookies map[string]string
	headers map[string]string
}

func (f fakeRequest) QueryParam(name string) (string, bool) {
	v, ok := f.query[name]
	return v, ok
}

func (f fakeRequest) Cookie(name string) (string, bool) {
	v, ok := f.cookies[name]
	return v, ok
}

func (f fakeRequest) Header(name string) (string, bool) {
	v, ok := f.headers[strings.ToLower(name)]
	return v, ok
}

func TestResolveTokenOrder(t *testing.T) {
	scheme := SecurityScheme{
		Query("token"),
		Cookie("sessauth"),
		Header("X-Session-Token"),
	}

	req := fakeRequest{
		query:   map[string]string{"token": "from-query"},
		cookies: map[string]string{"sessauth": "from-cookie"},
		headers: map[string]string{"x-session-token": "from-header"},
	}
	if got, ok := ResolveToken(scheme, req); !ok || got != "from-query" {
		t.Fatalf("ResolveToken = %q/%v, want from-query", got, ok)
	}

	// First source absent: the next one wins; values are never merged.
	req.query = nil
	if got, ok := ResolveToken(scheme, req); !ok || got != "from-cookie" {
		t.Fatalf("ResolveToken = %q/%v, want from-cookie", got, ok)
	}

	req.cookies = nil
	if got, ok := ResolveToken(scheme, req); !ok || got != "from-header" {
		t.Fatalf("ResolveToken = %q/%v, want from-header", got, ok)
	}
}

func TestResolveTokenHeaderCaseInsensitive(t *testing.T) {
	scheme := SecurityScheme{Header("X-SESSION-TOKEN")}
	req := fakeRequest{headers: map[string]string{"x-session-token": "tok"}}

	if got, ok := ResolveToken(scheme, req); !ok || got != "tok" {
		t.Fatalf("ResolveToken = %q/%v, want tok", got, ok)
	}
}

func TestResolveTokenAbsent(t *testing.T) {
	scheme := SecurityScheme{Query("token"), Cookie("sessauth")}

	if got, ok := ResolveToken(scheme, fakeRequest{}); ok {
		t.Fatalf("ResolveToken = %q, want no candidate", got)
	}
	if _, ok := ResolveToken(scheme, nil); ok {
		t.Fatal("nil request should yield no candidate")
	}
}

func TestResolveTokenPresentButEmpty(t *testing.T) {
	// A present-but-empty source still wins: "no candidate" is distinct from
	// "candidate that validates to nothing".
	scheme := SecurityScheme{Query("token"), Cookie("sessauth")}
	req := fakeRequest{
		query:   map[string]string{"token": ""},
		cookies: map[string]string{"sessauth": "real"},
	}

	if got, ok := ResolveToken(scheme, req); !ok || got != "" {
		t.Fatalf("ResolveToken = %q/%v, want empty present value", got, ok)
	}
}
