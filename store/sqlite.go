package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/RyanBlaney/qcm-ringdown/ringdown"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp DATETIME NOT NULL,
	f0_hz     REAL NOT NULL,
	tau_s     REAL NOT NULL,
	q         REAL NOT NULL,
	fit_rmse  REAL,
	alpha     REAL,
	df_tau    REAL,
	df_q      REAL,
	extras    TEXT
);
CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs (timestamp);
`

// SQLiteStore keeps run records in a SQLite database for cross-run queries
// that outgrow the flat CSV.
type SQLiteStore struct {
	db     *sql.DB
	insert *sql.Stmt
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating schema: %w", err)
	}

	insert, err := db.Prepare(`INSERT INTO runs
		(timestamp, f0_hz, tau_s, q, fit_rmse, alpha, df_tau, df_q, extras)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: preparing insert: %w", err)
	}

	return &SQLiteStore{db: db, insert: insert}, nil
}

// Append inserts one record.
func (s *SQLiteStore) Append(record *ringdown.Record) error {
	extras, err := json.Marshal(record.Extras)
	if err != nil {
		return fmt.Errorf("store: encoding extras: %w", err)
	}

	_, err = s.insert.Exec(
		record.Timestamp.UTC(),
		record.F0Hz, record.TauS, record.Q, record.FitRMSE,
		record.Alpha, record.DfTau, record.DfQ,
		string(extras),
	)
	if err != nil {
		return fmt.Errorf("store: inserting run: %w", err)
	}
	return nil
}

// Recent returns up to limit most recent records, newest first.
func (s *SQLiteStore) Recent(limit int) (records []*ringdown.Record, err error) {
	rows, err := s.db.Query(`SELECT timestamp, f0_hz, tau_s, q, fit_rmse,
		alpha, df_tau, df_q, extras
		FROM runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: querying runs: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var rec ringdown.Record
		var ts time.Time
		var extras sql.NullString

		if err := rows.Scan(&ts, &rec.F0Hz, &rec.TauS, &rec.Q, &rec.FitRMSE,
			&rec.Alpha, &rec.DfTau, &rec.DfQ, &extras); err != nil {
			return nil, fmt.Errorf("store: scanning run: %w", err)
		}

		rec.Timestamp = ts
		if extras.Valid && extras.String != "" && extras.String != "null" {
			if err := json.Unmarshal([]byte(extras.String), &rec.Extras); err != nil {
				return nil, fmt.Errorf("store: decoding extras: %w", err)
			}
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Close releases the prepared statement and the database handle.
func (s *SQLiteStore) Close() error {
	if err := s.insert.Close(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}
