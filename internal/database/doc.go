// Package database provides SQLite-based persistence for harvest bookkeeping.
//
// The JSON artifacts under internal/store are the product of a run; the
// database remembers which pages a run has already examined so that repeated
// reconcile passes skip work that cannot yield new records.
package database
