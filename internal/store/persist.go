package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/acsarchive/acsharvest/internal/model"
)

// SaveDatabase writes the database to path as a JSON object keyed by item
// identifier. The write is atomic: a temp file in the same directory is
// renamed over the target, so a crash mid-write leaves the old file intact.
func SaveDatabase(db *Database, path string) error {
	return writeJSON(path, db.Snapshot())
}

// LoadDatabase reads a previously saved database. A missing file yields an
// empty database: the first run of a harvest has nothing to load.
func LoadDatabase(path string) (*Database, error) {
	db := NewDatabase()

	data, err := os.ReadFile(path) //nolint:gosec // Path comes from our own config
	if err != nil {
		if os.IsNotExist(err) {
			return db, nil
		}
		return nil, fmt.Errorf("read database %s: %w", path, err)
	}

	var records map[string]model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse database %s: %w", path, err)
	}
	db.records = records
	if db.records == nil {
		db.records = make(map[string]model.Record)
	}
	return db, nil
}

// SaveNames writes name records as a JSON object keyed by display number.
func SaveNames(names []model.NameRecord, path string) error {
	keyed := make(map[string]model.NameRecord, len(names))
	for _, n := range names {
		keyed[n.Number.Display()] = n
	}
	return writeJSON(path, keyed)
}

// LoadNames reads a names file into a lookup by item number. A missing
// file yields an empty map; scraping still works, records just carry no
// display names.
func LoadNames(path string) (map[model.ItemNumber]string, error) {
	out := make(map[model.ItemNumber]string)

	data, err := os.ReadFile(path) //nolint:gosec // Path comes from our own config
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("read names %s: %w", path, err)
	}

	var keyed map[string]model.NameRecord
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, fmt.Errorf("parse names %s: %w", path, err)
	}
	for _, n := range keyed {
		out[n.Number] = n.Name
	}
	return out, nil
}

// SaveBacklinks writes the backlink set as a JSON object keyed by component
// page ID.
func SaveBacklinks(set model.BacklinkSet, path string) error {
	return writeJSON(path, set)
}

// LoadBacklinks reads a previously saved backlink set. A missing file is an
// error here, unlike the database: reconciliation without backlinks is
// meaningless and the caller should say so.
func LoadBacklinks(path string) (model.BacklinkSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from our own config
	if err != nil {
		return nil, fmt.Errorf("read backlinks %s: %w", path, err)
	}

	var set model.BacklinkSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse backlinks %s: %w", path, err)
	}
	return set, nil
}

// writeJSON marshals v with indentation and writes it atomically.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into place %s: %w", path, err)
	}
	return nil
}
