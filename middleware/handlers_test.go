package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sessauth "github.com/varekai/sessauth"
	"github.com/varekai/sessauth/password"
)

const (
	testLogin    = "alice"
	testPassword = "s3cret"
)

func testHasher(t *testing.T) *password.Hasher {
	t.Helper()
	h, err := password.NewHasher(password.Config{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLength: 32})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	return h
}

func newTestEngine(t *testing.T, mode sessauth.TokenMode) *sessauth.Engine {
	t.Helper()

	hasher := testHasher(t)
	directory := sessauth.NewMemoryDirectory(hasher, nil)
	if _, err := directory.AddLocalUser(testLogin, "", testPassword, nil); err != nil {
		t.Fatalf("AddLocalUser failed: %v", err)
	}

	cfg := sessauth.DefaultConfig()
	cfg.Token = sessauth.TokenConfig{Mode: mode, Name: "sessauth"}

	engine, err := sessauth.New().
		WithConfig(cfg).
		WithUserDirectory(directory).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) responseBody {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	var body responseBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("response body did not decode: %v", err)
	}
	return body
}

// login drives a full challenge round trip through the Login handler and
// returns the issued session token.
func login(t *testing.T, engine *sessauth.Engine) string {
	t.Helper()
	scheme := sessauth.SecurityScheme{sessauth.Cookie("sessauth")}

	connect := httptest.NewRecorder()
	Connect(engine, scheme)(connect, httptest.NewRequest(http.MethodGet, "/connect", nil))
	challenge := decodeBody(t, connect).AuthNeeded
	if challenge == nil {
		t.Fatal("connect without token did not issue a challenge")
	}

	hash := testHasher(t).Hash(testLogin, testPassword)
	payload, _ := json.Marshal(sessauth.LoginRequest{
		Local: &sessauth.LocalLogin{
			Login:       testLogin,
			ChallengeID: challenge.ChallengeID,
			Reply:       password.MAC(challenge.Challenge, hash),
		},
	})

	rec := httptest.NewRecorder()
	Login(engine)(rec, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(payload)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	result := decodeBody(t, rec).AuthOk
	if result == nil || result.Token == "" {
		t.Fatalf("login did not return a session token: %s", rec.Body.String())
	}
	return result.Token
}

func TestCookieModeRoundTrip(t *testing.T) {
	engine := newTestEngine(t, sessauth.TokenModeCookie)
	scheme := sessauth.SecurityScheme{sessauth.Cookie("sessauth")}

	token := login(t, engine)

	// Connect with the cookie: auth_ok, token re-bound in the cookie.
	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.AddCookie(&http.Cookie{Name: "sessauth", Value: token})
	rec := httptest.NewRecorder()
	Connect(engine, scheme)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("connect status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body.AuthOk == nil || body.AuthOk.Login != testLogin || body.AuthOk.Token != token {
		t.Fatalf("unexpected connect body: %+v", body)
	}

	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sessauth" {
			found = c
		}
	}
	if found == nil || found.Value != token {
		t.Fatalf("session cookie not bound: %+v", found)
	}
	if !found.HttpOnly || found.Path != "/" {
		t.Fatalf("cookie attributes: %+v", found)
	}
}

func TestCookieClearedOnLogout(t *testing.T) {
	engine := newTestEngine(t, sessauth.TokenModeCookie)
	scheme := sessauth.SecurityScheme{sessauth.Cookie("sessauth")}

	token := login(t, engine)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "sessauth", Value: token})
	rec := httptest.NewRecorder()
	Logout(engine, scheme)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	if decodeBody(t, rec).AuthNeeded == nil {
		t.Fatal("logout did not issue a fresh challenge")
	}

	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sessauth" {
			found = c
		}
	}
	if found == nil || found.Value != "" || found.MaxAge != -1 {
		t.Fatalf("session cookie not cleared: %+v", found)
	}
}

func TestCSRFModeAdvertisesHeader(t *testing.T) {
	engine := newTestEngine(t, sessauth.TokenModeCSRF)
	scheme := sessauth.SecurityScheme{sessauth.Header("sessauth")}

	token := login(t, engine)

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.Header.Set("Sessauth", token)
	rec := httptest.NewRecorder()
	Connect(engine, scheme)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("connect status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body.AuthOk == nil || body.AuthOk.Token != token {
		t.Fatalf("unexpected connect body: %+v", body)
	}

	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "sessauth" {
		t.Fatalf("Access-Control-Allow-Headers = %q", got)
	}
	// The token travels only in the body, never in response headers.
	for name, values := range rec.Header() {
		for _, v := range values {
			if strings.Contains(v, token) {
				t.Fatalf("token leaked into response header %s", name)
			}
		}
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("csrf mode set a cookie")
	}
}

func TestConnectWithoutTokenIssuesChallenge(t *testing.T) {
	engine := newTestEngine(t, sessauth.TokenModeCookie)
	scheme := sessauth.SecurityScheme{sessauth.Cookie("sessauth")}

	rec := httptest.NewRecorder()
	Connect(engine, scheme)(rec, httptest.NewRequest(http.MethodGet, "/connect", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body.AuthNeeded == nil || body.AuthNeeded.ChallengeID == "" || body.AuthNeeded.Challenge == "" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.AuthOk != nil || body.Error != "" {
		t.Fatalf("envelope not exclusive: %+v", body)
	}
}

func TestConnectStaleTokenIssuesChallenge(t *testing.T) {
	engine := newTestEngine(t, sessauth.TokenModeCookie)
	scheme := sessauth.SecurityScheme{sessauth.Cookie("sessauth")}

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.AddCookie(&http.Cookie{Name: "sessauth", Value: "stale-token"})
	rec := httptest.NewRecorder()
	Connect(engine, scheme)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if decodeBody(t, rec).AuthNeeded == nil {
		t.Fatal("stale token did not fall back to a challenge")
	}
}

func TestLoginRejectionWireShape(t *testing.T) {
	engine := newTestEngine(t, sessauth.TokenModeCookie)

	payload, _ := json.Marshal(sessauth.LoginRequest{
		Local: &sessauth.LocalLogin{
			Login:       testLogin,
			ChallengeID: "no-such-challenge",
			Reply:       "whatever",
		},
	})
	rec := httptest.NewRecorder()
	Login(engine)(rec, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(payload)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	body := decodeBody(t, rec)
	if body.Error != "Challenge_not_found_or_expired" {
		t.Fatalf("error kind = %q", body.Error)
	}
}

func TestLoginMalformedBody(t *testing.T) {
	engine := newTestEngine(t, sessauth.TokenModeCookie)

	rec := httptest.NewRecorder()
	Login(engine)(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{not json")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLogoutWithoutToken(t *testing.T) {
	engine := newTestEngine(t, sessauth.TokenModeCookie)
	scheme := sessauth.SecurityScheme{sessauth.Cookie("sessauth")}

	rec := httptest.NewRecorder()
	Logout(engine, scheme)(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if decodeBody(t, rec).Error != "Invalid_session" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
