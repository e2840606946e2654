// Package password implements the two hashing primitives the protocol needs:
// deterministic Argon2id password hashing (salted from the login, so a client
// holding only login+password can recompute the exact stored hash) and the
// keyed BLAKE2b challenge MAC used as the login reply.
//
// # Determinism contract
//
// Hash(login, password) must return the same string on every call: the stored
// hash doubles as the client-side secret for challenge replies. Do NOT switch
// to random salts without changing the protocol.
//
// # What this package must NOT do
//
//   - Store or compare secrets (stores and the engine own that).
//   - Depend on any other sessauth package.
package password
