package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/amishk599/synergy/internal/model"
)

var _ model.SessionStore = (*SQLiteStore)(nil)

// SessionInfo summarises one persisted session.
type SessionInfo struct {
	ID        string
	CreatedAt time.Time
	Rows      int
}

// SQLiteStore persists session tables in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// sessions and result_rows tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS result_rows (
			session_id           TEXT NOT NULL REFERENCES sessions(id),
			seq                  INTEGER NOT NULL,
			company_name         TEXT NOT NULL,
			personalized_section TEXT NOT NULL,
			PRIMARY KEY (session_id, seq)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// CreateSession records a new session and returns its ID.
func (s *SQLiteStore) CreateSession() (string, error) {
	id := uuid.NewString()
	if _, err := s.db.Exec("INSERT INTO sessions (id, created_at) VALUES (?, ?)", id, time.Now().UnixNano()); err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return id, nil
}

// HasSession returns true if the session ID exists.
func (s *SQLiteStore) HasSession(id string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM sessions WHERE id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking session %s: %w", id, err)
	}
	return true, nil
}

// Load returns the rows of a session in insertion order.
func (s *SQLiteStore) Load(id string) ([]model.ResultRow, error) {
	rows, err := s.db.Query(
		"SELECT company_name, personalized_section FROM result_rows WHERE session_id = ? ORDER BY seq",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}
	defer rows.Close()

	var out []model.ResultRow
	for rows.Next() {
		var r model.ResultRow
		if err := rows.Scan(&r.CompanyName, &r.PersonalizedSection); err != nil {
			return nil, fmt.Errorf("scanning session %s: %w", id, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}
	return out, nil
}

// Append adds rows after the existing rows of a session in one transaction.
func (s *SQLiteStore) Append(id string, rows []model.ResultRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("appending to session %s: %w", id, err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRow(
		"SELECT COALESCE(MAX(seq), 0) + 1 FROM result_rows WHERE session_id = ?", id,
	).Scan(&next); err != nil {
		return fmt.Errorf("appending to session %s: %w", id, err)
	}

	for i, r := range rows {
		if _, err := tx.Exec(
			"INSERT INTO result_rows (session_id, seq, company_name, personalized_section) VALUES (?, ?, ?, ?)",
			id, next+i, r.CompanyName, r.PersonalizedSection,
		); err != nil {
			return fmt.Errorf("appending to session %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("appending to session %s: %w", id, err)
	}
	return nil
}

// ListSessions returns all sessions, newest first, with their row counts.
func (s *SQLiteStore) ListSessions() ([]SessionInfo, error) {
	rows, err := s.db.Query(`
		SELECT s.id, s.created_at, COUNT(r.seq)
		FROM sessions s LEFT JOIN result_rows r ON r.session_id = s.id
		GROUP BY s.id, s.created_at
		ORDER BY s.created_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var created int64
		if err := rows.Scan(&info.ID, &created, &info.Rows); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		info.CreatedAt = time.Unix(0, created)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
