package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS app_state (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// associationsKey is the fixed name of the association document slot.
const associationsKey = "associations"

// SQLiteSlot stores the document in a single-row key-value table.
type SQLiteSlot struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database and applies the schema.
func OpenSQLite(dsn string) (*SQLiteSlot, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("state: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("state: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("state: apply schema: %w", err)
	}
	return &SQLiteSlot{conn: conn}, nil
}

// Read returns the document bytes, or ok=false if the slot has never been
// written.
func (s *SQLiteSlot) Read() ([]byte, bool, error) {
	var data []byte
	err := s.conn.QueryRow(`SELECT value FROM app_state WHERE key = ?`, associationsKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("state: read slot: %w", err)
	}
	return data, true, nil
}

// Write replaces the document in a single upsert.
func (s *SQLiteSlot) Write(data []byte) error {
	_, err := s.conn.Exec(`
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		associationsKey, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("state: write slot: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteSlot) Close() error {
	return s.conn.Close()
}
