package sessauth

// Request is the transport capability the engine reads. Implementations adapt
// an inbound request of whatever transport carries the protocol; the
// middleware package provides the net/http adapter.
//
// Header must match names case-insensitively and return the first value when
// the header is repeated. All three lookups report presence separately from
// the value: a present-but-empty parameter is still a candidate token.
type Request interface {
	QueryParam(name string) (string, bool)
	Cookie(name string) (string, bool)
	Header(name string) (string, bool)
}

// SourceKind identifies one kind of token source in a [SecurityScheme].
type SourceKind uint8

const (
	// SourceQuery reads the token from a query parameter.
	SourceQuery SourceKind = iota
	// SourceCookie reads the token from a request cookie.
	SourceCookie
	// SourceHeader reads the token from a request header.
	SourceHeader
)

// TokenSource names one place a session token may arrive in.
type TokenSource struct {
	Kind SourceKind
	Name string
}

// SecurityScheme is an endpoint's ordered list of accepted token sources.
// Sources are evaluated in order and the first present value wins; values are
// never merged across sources.
type SecurityScheme []TokenSource

// Query returns a query-parameter token source.
func Query(param string) TokenSource { return TokenSource{Kind: SourceQuery, Name: param} }

// Cookie returns a cookie token source.
func Cookie(name string) TokenSource { return TokenSource{Kind: SourceCookie, Name: name} }

// Header returns a header token source.
func Header(name string) TokenSource { return TokenSource{Kind: SourceHeader, Name: name} }

// TokenMode selects how the engine's responses bind the session token to the
// transport.
type TokenMode uint8

const (
	// TokenModeCookie sets a response cookie carrying the token (cleared when
	// the response carries no token).
	TokenModeCookie TokenMode = iota
	// TokenModeCSRF advertises the configured header name as an allowed
	// request header. The token value itself is never placed in a response
	// header; clients read it from the AuthResult body and echo it in the
	// advertised header.
	TokenModeCSRF
)

// TokenConfig is the per-deployment auth-header binding: a cookie name or a
// CSRF header name.
type TokenConfig struct {
	Mode TokenMode
	Name string
}

// ResultKind tags the outcome union.
type ResultKind uint8

const (
	// ResultAuthOk carries an [AuthResult].
	ResultAuthOk ResultKind = iota
	// ResultAuthNeeded carries a freshly issued [Challenge].
	ResultAuthNeeded
	// ResultError carries a domain error (see [ErrorKind]).
	ResultError
)

// Outcome is the engine's terminal per-request result plus its transport
// instructions. Every flow sets the auth header on every branch: Token holds
// the value to bind, empty meaning bind-with-no-token (cookie cleared, CSRF
// header name still advertised).
type Outcome struct {
	Kind      ResultKind
	Status    int
	Result    *AuthResult
	Challenge *Challenge
	Err       error
	Token     string
}
