package database

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/jgoulah/kcaltrack/internal/errs"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB is a key-value medium backed by a SQLite table. Writes that would push
// the stored bytes past the quota are rejected with errs.ErrQuotaExceeded.
type DB struct {
	conn  *sql.DB
	quota int64
}

// New opens the database, runs migrations and applies the byte quota.
// A quota <= 0 disables the limit.
func New(dbPath string, quotaBytes int64) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps :memory: databases shared.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db := &DB{conn: conn, quota: quotaBytes}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	goose.SetBaseFS(migrations)
	// Keep migration output off stderr
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db.conn, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Quota returns the configured byte limit (0 when unlimited)
func (db *DB) Quota() int64 {
	if db.quota < 0 {
		return 0
	}
	return db.quota
}

// Get returns the value stored under key
func (db *DB) Get(key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, enforcing the quota
func (db *DB) Set(key, value string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning write: %w", err)
	}
	defer tx.Rollback()

	if db.quota > 0 {
		var others int64
		err := tx.QueryRow(
			`SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0) FROM kv WHERE key != ?`,
			key,
		).Scan(&others)
		if err != nil {
			return fmt.Errorf("measuring usage: %w", err)
		}

		need := others + int64(len(key)) + int64(len(value))
		if need > db.quota {
			return fmt.Errorf("writing key %q (%d of %d bytes): %w", key, need, db.quota, errs.ErrQuotaExceeded)
		}
	}

	_, err = tx.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing key %q: %w", key, err)
	}
	return nil
}

// Remove deletes key; removing a missing key is not an error
func (db *DB) Remove(key string) error {
	if _, err := db.conn.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing key %q: %w", key, err)
	}
	return nil
}

// UsedBytes returns the total size of all stored keys and values
func (db *DB) UsedBytes() (int64, error) {
	var used int64
	err := db.conn.QueryRow(
		`SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0) FROM kv`,
	).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("measuring usage: %w", err)
	}
	return used, nil
}

// Keys lists stored keys in order
func (db *DB) Keys() ([]string, error) {
	rows, err := db.conn.Query(`SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
