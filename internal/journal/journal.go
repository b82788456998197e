// Package journal keeps a local, append-only log of the mutating calls this
// server sends to Plane (creates, updates, deletes, comments, links).
//
// It is backed by SQLite through the pure-Go modernc.org/sqlite driver. Each
// server process opens one session row; every entry points at it, so the
// activity of a single host conversation can be told apart from earlier ones.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Outcomes recorded for an entry.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

const (
	defaultRecentLimit = 20
	dbFile             = "journal.db"
)

// ─── Types ───────────────────────────────────────────────────────────────────

// Entry is one recorded tool call.
type Entry struct {
	ID        int64   `json:"id"`
	SessionID string  `json:"session_id"`
	Tool      string  `json:"tool"`
	Project   string  `json:"project"`
	TicketID  *string `json:"ticket_id,omitempty"`
	Outcome   string  `json:"outcome"`
	Detail    string  `json:"detail,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// RecordParams holds the input for Record.
type RecordParams struct {
	Tool     string
	Project  string
	TicketID string
	Outcome  string
	Detail   string
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds journal configuration.
type Config struct {
	DataDir         string
	MaxDetailLength int
	MaxRecent       int
	Version         string // server version stamped on the session row
}

// DefaultConfig returns the default journal configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:         filepath.Join(home, ".plane-mcp"),
		MaxDetailLength: 2000,
		MaxRecent:       100,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the SQLite-backed journal. It is safe for concurrent use.
type Store struct {
	db        *sql.DB
	cfg       Config
	sessionID string
}

// New opens (creating if needed) the journal database in cfg.DataDir,
// runs migrations and starts a new session.
func New(cfg Config) (*Store, error) {
	if cfg.MaxRecent <= 0 {
		cfg.MaxRecent = DefaultConfig().MaxRecent
	}
	if cfg.MaxDetailLength <= 0 {
		cfg.MaxDetailLength = DefaultConfig().MaxDetailLength
	}

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("journal: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(cfg.DataDir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("journal: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg, sessionID: uuid.NewString()}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: migration: %w", err)
	}

	if _, err := s.db.Exec(
		`INSERT INTO sessions (id, version, started_at) VALUES (?, ?, ?)`,
		s.sessionID, cfg.Version, Now(),
	); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: start session: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SessionID returns the ID of the session opened by New.
func (s *Store) SessionID() string { return s.sessionID }

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			version    TEXT NOT NULL DEFAULT '',
			started_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS entries (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id),
			tool       TEXT NOT NULL,
			project    TEXT NOT NULL DEFAULT '',
			ticket_id  TEXT,
			outcome    TEXT NOT NULL,
			detail     TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_entries_project ON entries(project, id DESC);
		CREATE INDEX IF NOT EXISTS idx_entries_session ON entries(session_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Entries ─────────────────────────────────────────────────────────────────

// Record appends an entry to the current session and returns its ID.
func (s *Store) Record(p RecordParams) (int64, error) {
	if strings.TrimSpace(p.Tool) == "" {
		return 0, fmt.Errorf("journal: record: tool is required")
	}
	outcome := p.Outcome
	if outcome == "" {
		outcome = OutcomeOK
	}

	res, err := s.db.Exec(
		`INSERT INTO entries (session_id, tool, project, ticket_id, outcome, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.sessionID, p.Tool, p.Project, nullableString(p.TicketID), outcome,
		Truncate(p.Detail, s.cfg.MaxDetailLength), Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("journal: record: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns the newest entries first, optionally filtered by project
// code. limit <= 0 means 20; it is capped at Config.MaxRecent.
func (s *Store) Recent(project string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > s.cfg.MaxRecent {
		limit = s.cfg.MaxRecent
	}

	query := `
		SELECT id, session_id, tool, project, ticket_id, outcome, detail, created_at
		FROM entries
	`
	args := []any{}
	if project != "" {
		query += " WHERE project = ?"
		args = append(args, project)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.SessionID, &e.Tool, &e.Project, &e.TicketID,
			&e.Outcome, &e.Detail, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Truncate shortens a string to at most max bytes with an ellipsis,
// cutting on a rune boundary.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// Now returns the current time formatted for SQLite.
func Now() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}
