// Package store provides persistent storage for the workout ledger.
//
// # Architecture
//
// The ledger is two independent collections, Users and Records, each kept in
// its own JSON file and rewritten in full on every save. FileStore implements
// the Store interface; callers load a collection, mutate the in-memory copy,
// and write the whole thing back. The files are human-inspectable and can be
// exported or imported independently as a pair.
//
// # Durability Policy
//
// Saves go through a temp file plus rename so a crash mid-write leaves the
// previous file intact. Loads never fail on bad data: a missing, empty, or
// unparsable file recovers to an empty collection, and individually invalid
// rows (bad date, non-positive id) are dropped at the boundary. Every
// recovery is logged at Warn level because it can mean silent data loss.
//
// # Concurrency
//
// FileStore itself does not serialize writers. The load-mutate-save cycle is
// only safe when callers hold a write lock around it; the tracker service
// owns that lock. Concurrent readers are safe against a concurrent save
// because the rename swap is atomic.
package store
