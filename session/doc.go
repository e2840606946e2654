// Package session provides session persistence for the authentication
// engine: the [Session] model, the [Store] capability, a mutex-guarded
// in-memory store, and a Redis-backed store with compact binary record
// encoding.
//
// # Store contract
//
// A session is valid iff it is present in the store — there is no separate
// liveness flag. GetSession refreshes LastAccess as a side effect on every
// hit. RemoveSession deletes only when the stored owner matches the supplied
// user id and is otherwise a silent no-op, so a guessed token can never
// delete another user's session.
//
// # Binary encoding
//
// The Redis store serializes records in a compact binary format (schema v1).
// The owner id sits at a fixed early offset so the owner-checked delete
// script can read it without decoding the full record.
//
// # What this package must NOT do
//
//   - Import sessauth (no upward imports).
//   - Mint tokens outside CreateSession or validate credentials.
//   - Store challenge values or password material in [Session] fields.
package session
