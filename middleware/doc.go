// Package middleware translates HTTP semantics into sessauth engine calls:
// it adapts *http.Request to the engine's transport-neutral Request
// capability, decodes and encodes the wire JSON for the connect, login, and
// logout endpoints, and applies each outcome's transport instructions
// (status, response cookie, or CSRF header advertisement).
//
// # Architecture boundaries
//
// This package translates transport shapes. It does NOT implement
// authentication logic itself — all decisions are delegated to the Engine.
//
// # What this package must NOT do
//
//   - Inspect or compare tokens, challenges, or hashes.
//   - Touch the session, challenge, or user stores directly.
//   - Place a token value in a response header (CSRF mode only advertises
//     the header name; the client reads the token from the response body).
package middleware
