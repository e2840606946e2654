package session

import "time"

// Session defines a public type used by sessauth APIs.
//
// Login is empty for sessions attached via AddSession (federated logins
// reuse the provider-issued credential and carry no local login). Variables
// are free-form per-session strings owned by the deployment. LastAccess is
// the only mutable field; the store refreshes it on every successful lookup.
type Session struct {
	Login      string
	UserID     string
	Token      string
	Variables  map[string]string
	LastAccess time.Time
}

// clone returns an independent copy so callers never alias store-owned state.
func (s *Session) clone() *Session {
	out := *s
	out.Variables = make(map[string]string, len(s.Variables))
	for k, v := range s.Variables {
		out.Variables[k] = v
	}
	return &out
}
