// Package workspace persists the working document to a local SQLite
// file so a restarted server resumes where the user left off.
package workspace

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Craig-TribeAI/org-chart-builder/internal/checksum"
)

// schemaVersion is bumped on any incompatible schema change. A stored
// workspace with a different version is wiped, not migrated: the
// document format is versioned separately and the user always holds the
// source CSV and JSON exports.
const schemaVersion = "1"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS document (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	body       TEXT NOT NULL,
	checksum   TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Workspace defines the persistence operations the service layer needs.
// Consumers should depend on this interface rather than the concrete
// *DB type to facilitate testing with mocks.
type Workspace interface {
	Save(data []byte) error
	Load() ([]byte, error)
	WasReset() bool
	Close() error
}

// Verify *DB satisfies Workspace at compile time.
var _ Workspace = (*DB)(nil)

// DB wraps a sql.DB holding one workspace document.
type DB struct {
	conn     *sql.DB
	wasReset bool
}

// Open opens (or creates) the workspace database. A schema-version
// mismatch resets the stored state.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("workspace: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("workspace: ping: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// migrate brings a fresh or stale database to the current schema.
func (db *DB) migrate() error {
	var metaTables int
	if err := db.conn.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'meta'`,
	).Scan(&metaTables); err != nil {
		return fmt.Errorf("workspace: inspect schema: %w", err)
	}

	if metaTables > 0 {
		var stored string
		err := db.conn.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&stored)
		switch {
		case err == sql.ErrNoRows:
			db.wasReset = true
		case err != nil:
			return fmt.Errorf("workspace: read schema version: %w", err)
		case stored != schemaVersion:
			db.wasReset = true
		default:
			return nil
		}
		if _, err := db.conn.Exec(`DROP TABLE IF EXISTS document; DROP TABLE IF EXISTS meta;`); err != nil {
			return fmt.Errorf("workspace: drop stale schema: %w", err)
		}
	}

	if _, err := db.conn.Exec(schemaSQL); err != nil {
		return fmt.Errorf("workspace: apply schema: %w", err)
	}
	if _, err := db.conn.Exec(
		`INSERT INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion,
	); err != nil {
		return fmt.Errorf("workspace: record schema version: %w", err)
	}
	return nil
}

// WasReset reports whether Open discarded an incompatible stored
// workspace. Callers surface this to the user once.
func (db *DB) WasReset() bool { return db.wasReset }

// Save stores the document, skipping the write when the content
// checksum matches what is already stored.
func (db *DB) Save(data []byte) error {
	sum := checksum.Sum(data)

	var stored string
	err := db.conn.QueryRow(`SELECT checksum FROM document WHERE id = 1`).Scan(&stored)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("workspace: read checksum: %w", err)
	}
	if stored == sum {
		return nil
	}

	_, err = db.conn.Exec(`
		INSERT INTO document (id, body, checksum, updated_at) VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, checksum = excluded.checksum, updated_at = CURRENT_TIMESTAMP`,
		string(data), sum)
	if err != nil {
		return fmt.Errorf("workspace: save document: %w", err)
	}
	return nil
}

// Load returns the stored document, or nil when nothing has been saved
// yet.
func (db *DB) Load() ([]byte, error) {
	var body string
	err := db.conn.QueryRow(`SELECT body FROM document WHERE id = 1`).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("workspace: load document: %w", err)
	}
	return []byte(body), nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
