// Package datasets keeps uploaded tables in memory for the lifetime of a
// browser session.
//
// Entries expire after a configurable idle TTL and the store holds at most
// MaxEntries tables; when full, the oldest upload is evicted. Run sweeps
// expired entries until its context is cancelled.
package datasets
