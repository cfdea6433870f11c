package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// CheckDB provides SQLite-based storage for harvest bookkeeping.
// It records which page URLs have already been examined so that a later
// reconcile pass only fetches genuinely new candidates.
//
// Design decision: We use a single database file per output directory
// rather than one per phase. The scrape and reconcile phases share the
// same notion of "already checked", so splitting the file would only
// force cross-database lookups.
type CheckDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CheckDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CheckDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CheckDB, error) {
	dbPath := filepath.Join(dbDir, "acsharvest.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer, and the harvest writes from a
	// single goroutine anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CheckDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CheckDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CheckDB) createTables() error {
	schema := `
	-- Checked pages record every URL a run has examined, whether or not
	-- it yielded a classification record.
	CREATE TABLE IF NOT EXISTS checked_pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		found INTEGER NOT NULL DEFAULT 0,
		method TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_checked_url ON checked_pages(url);
	CREATE INDEX IF NOT EXISTS idx_checked_timestamp ON checked_pages(timestamp);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// CheckedPage represents one examined URL.
type CheckedPage struct {
	ID        int64
	URL       string
	Found     bool
	Method    string
	Timestamp time.Time
}

// MarkChecked records that a URL has been examined.
// Uses UPSERT so re-checking a URL refreshes its outcome and timestamp.
func (cdb *CheckDB) MarkChecked(ctx context.Context, url string, found bool, method string) error {
	query := `
	INSERT INTO checked_pages (url, found, method)
	VALUES (?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		found = excluded.found,
		method = excluded.method,
		timestamp = CURRENT_TIMESTAMP
	`

	if _, err := cdb.db.ExecContext(ctx, query, url, found, method); err != nil {
		return fmt.Errorf("failed to mark page checked: %w", err)
	}
	return nil
}

// IsChecked reports whether a URL has already been examined.
func (cdb *CheckDB) IsChecked(ctx context.Context, url string) (bool, error) {
	var count int
	err := cdb.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM checked_pages WHERE url = ?", url).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check page: %w", err)
	}
	return count > 0, nil
}

// GetCheckedPage retrieves the record for an examined URL.
// Returns nil when the URL has never been examined.
func (cdb *CheckDB) GetCheckedPage(ctx context.Context, url string) (*CheckedPage, error) {
	query := `
	SELECT id, url, found, method, timestamp
	FROM checked_pages
	WHERE url = ?
	`

	var page CheckedPage
	var method sql.NullString
	var timestamp string

	err := cdb.db.QueryRowContext(ctx, query, url).Scan(
		&page.ID,
		&page.URL,
		&page.Found,
		&method,
		&timestamp,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checked page: %w", err)
	}

	page.Method = method.String
	page.Timestamp = parseTimestamp(timestamp)
	return &page, nil
}

// CheckedURLs returns every examined URL as a set.
// The reconcile phase subtracts this set from the candidate union.
func (cdb *CheckDB) CheckedURLs(ctx context.Context) (map[string]bool, error) {
	rows, err := cdb.db.QueryContext(ctx, "SELECT url FROM checked_pages")
	if err != nil {
		return nil, fmt.Errorf("failed to list checked pages: %w", err)
	}
	defer rows.Close()

	urls := make(map[string]bool)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan checked page: %w", err)
		}
		urls[u] = true
	}

	return urls, rows.Err()
}

// CountChecked returns the number of examined URLs.
func (cdb *CheckDB) CountChecked(ctx context.Context) (int, error) {
	var count int
	err := cdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM checked_pages").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count checked pages: %w", err)
	}
	return count, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
