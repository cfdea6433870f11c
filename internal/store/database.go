package store

import (
	"sort"
	"sync"

	"github.com/acsarchive/acsharvest/internal/model"
)

// Database is the accumulating mapping from item key to classification
// record. Keys are unique; insertion order is irrelevant. Safe for
// concurrent use.
type Database struct {
	mu      sync.RWMutex
	records map[string]model.Record
}

// NewDatabase returns an empty Database.
func NewDatabase() *Database {
	return &Database{records: make(map[string]model.Record)}
}

// Put inserts or upgrades the record under key and reports whether the
// database changed.
//
// The upgrade rule: an absent key is always inserted; an existing record is
// replaced only when the new record's detection method strictly supersedes
// the old one (structured over fallback). Equal or weaker methods leave the
// existing record untouched, which is what makes repeated merges of the
// same snapshot idempotent.
func (d *Database) Put(key string, rec model.Record) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	existing, ok := d.records[key]
	if ok && !rec.Method.Supersedes(existing.Method) {
		return false
	}
	d.records[key] = rec
	return true
}

// Get returns the record under key.
func (d *Database) Get(key string) (model.Record, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.records[key]
	return rec, ok
}

// Has reports whether key is present.
func (d *Database) Has(key string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.records[key]
	return ok
}

// Len returns the number of records.
func (d *Database) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}

// Keys returns all keys in sorted order. Sorting keeps summaries and tests
// deterministic even though the map itself is unordered.
func (d *Database) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	keys := make([]string, 0, len(d.records))
	for k := range d.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the underlying map for serialization.
func (d *Database) Snapshot() map[string]model.Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]model.Record, len(d.records))
	for k, v := range d.records {
		out[k] = v
	}
	return out
}
