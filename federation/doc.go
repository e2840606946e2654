// Package federation validates externally-issued credentials for foreign
// logins. A [Registry] maps request origins to identity providers; Check
// verifies a provider-signed HS256 token and returns the local login its
// subject claim names, plus the provider tag the user directory must match.
//
// # Architecture boundaries
//
// This package is the default CheckForeign backend behind the user-directory
// capability. It verifies tokens the provider already minted — provider-side
// flows (OIDC discovery, consent, redirects) are the provider's business and
// never happen here.
//
// # What this package must NOT do
//
//   - Mint tokens or sessions.
//   - Import any other sessauth package.
package federation
