package middleware

import (
	"encoding/json"
	"net/http"

	sessauth "github.com/varekai/sessauth"
)

// challengePayload is the wire shape of an issued challenge.
type challengePayload struct {
	ChallengeID string `json:"challenge_id"`
	Challenge   string `json:"challenge"`
}

// responseBody is the wire envelope shared by all three endpoints. Exactly
// one field is set.
type responseBody struct {
	AuthOk     *sessauth.AuthResult `json:"auth_ok,omitempty"`
	AuthNeeded *challengePayload    `json:"auth_needed,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// Connect returns the GET /connect handler for an endpoint accepting tokens
// from the given security scheme.
func Connect(engine *sessauth.Engine, scheme sessauth.SecurityScheme) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outcome, err := engine.Connect(r.Context(), scheme, WrapRequest(r))
		if err != nil {
			internalError(w, err)
			return
		}
		writeOutcome(w, engine.TokenConfig(), outcome)
	}
}

// Login returns the POST /login handler.
func Login(engine *sessauth.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sessauth.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}
		outcome, err := engine.Login(r.Context(), req)
		if err != nil {
			internalError(w, err)
			return
		}
		writeOutcome(w, engine.TokenConfig(), outcome)
	}
}

// Logout returns the POST /logout handler for an endpoint accepting tokens
// from the given security scheme.
func Logout(engine *sessauth.Engine, scheme sessauth.SecurityScheme) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outcome, err := engine.Logout(r.Context(), scheme, WrapRequest(r))
		if err != nil {
			internalError(w, err)
			return
		}
		writeOutcome(w, engine.TokenConfig(), outcome)
	}
}

// writeOutcome applies the outcome's transport instructions and encodes the
// wire body. The auth header is bound on every branch, with or without a
// token.
func writeOutcome(w http.ResponseWriter, tc sessauth.TokenConfig, outcome *sessauth.Outcome) {
	applyAuthBinding(w, tc, outcome.Token)

	var body responseBody
	switch outcome.Kind {
	case sessauth.ResultAuthOk:
		body.AuthOk = outcome.Result
	case sessauth.ResultAuthNeeded:
		body.AuthNeeded = &challengePayload{
			ChallengeID: outcome.Challenge.ID,
			Challenge:   outcome.Challenge.Value,
		}
	case sessauth.ResultError:
		body.Error = sessauth.ErrorKind(outcome.Err)
	}

	w.Header().Set("Content-Type", "application/json")
	status := outcome.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// applyAuthBinding sets the deployment's auth header. Cookie mode writes the
// token cookie, or clears it when the response carries no token. CSRF mode
// advertises the configured header as allowed; the token value itself never
// travels in a response header.
func applyAuthBinding(w http.ResponseWriter, tc sessauth.TokenConfig, token string) {
	switch tc.Mode {
	case sessauth.TokenModeCookie:
		cookie := &http.Cookie{
			Name:     tc.Name,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
		if token == "" {
			cookie.MaxAge = -1
		}
		http.SetCookie(w, cookie)
	case sessauth.TokenModeCSRF:
		w.Header().Add("Access-Control-Allow-Headers", tc.Name)
	}
}

func internalError(w http.ResponseWriter, _ error) {
	// Backend failures carry no domain meaning; surface a bare 500 and keep
	// the cause in the server's own logs.
	http.Error(w, "internal error", http.StatusInternalServerError)
}
