// Package stores holds Redis-backed store primitives consumed by the root
// package: currently the bounded FIFO challenge store. Types here are
// transport-shaped (ids, strings, unix timestamps); the root package adapts
// them to the public capability interfaces.
//
// # What this package must NOT do
//
//   - Import the sessauth root package (the root wraps this package, never
//     the reverse).
//   - Hold protocol policy. Bounds and eviction order are mechanics; what a
//     challenge means belongs to the engine.
package stores
