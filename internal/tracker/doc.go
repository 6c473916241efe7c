// Package tracker implements the workout ledger service: registration,
// login, mark/unmark mutations, the dashboard, and the leaderboard.
//
// # Mutation Protocol
//
// Every mutation is a read-modify-write cycle against the file store: load
// the full collection, change the in-memory copy, write the whole thing
// back. The cycle is not intrinsically atomic, so the service holds a single
// write lock across it; two interleaved cycles would otherwise end with one
// writer's rewrite silently discarding the other's update.
//
// # Soft Failures
//
// Marking an already-marked day and unmarking a day that was never marked
// are not errors. They return Result{Applied: false} with a human-readable
// message and freshly recomputed statistics, so repeating a mutation with
// identical arguments is always safe.
//
// # Error Taxonomy
//
//   - ErrUnauthorized: missing or unknown session token, failed login
//   - ErrValidation: malformed pin, missing or invalid date, future date
//   - ErrConflict: duplicate user name at registration
//
// The clock is injectable (NewWithClock) so tests can pin "today".
package tracker
