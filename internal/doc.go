// Package internal holds module-private helpers shared across sessauth
// packages: random token generation and nothing else. Domain code lives in
// the public packages; Redis-backed store implementations live under
// internal/stores.
package internal
