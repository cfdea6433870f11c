// Package store holds the accumulating classification database and its
// JSON persistence.
//
// The Database is the single mapping from item key to classification
// record. Classification tasks complete concurrently, so inserts are
// serialized behind a mutex. The merge rule is explicit: a record is only
// ever replaced by a strictly more specific one (structured supersedes
// fallback) and is never downgraded, regardless of the order results
// arrive in.
//
// Persistence is a JSON object keyed by item identifier, written
// atomically (temp file + rename) so a failed run never truncates a prior
// database. The schema must stay stable across versions: reconciliation
// reloads the previous run's file.
package store
