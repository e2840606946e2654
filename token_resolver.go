package sessauth

import "strings"

// ResolveToken evaluates the scheme's token sources in order against the
// inbound request and returns the first present value. The boolean
// distinguishes "no candidate token" from "token present but invalid" — a
// present source wins even when its value turns out to reference no session.
func ResolveToken(scheme SecurityScheme, req Request) (string, bool) {
	if req == nil {
		return "", false
	}
	for _, src := range scheme {
		switch src.Kind {
		case SourceQuery:
			if v, ok := req.QueryParam(src.Name); ok {
				return v, true
			}
		case SourceCookie:
			if v, ok := req.Cookie(src.Name); ok {
				return v, true
			}
		case SourceHeader:
			if v, ok := req.Header(strings.ToLower(src.Name)); ok {
				return v, true
			}
		}
	}
	return "", false
}
