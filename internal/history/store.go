// Package history persists resolved lookups to a local SQLite database so
// past queries can be listed without hitting the providers again.
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/adapta-br/consulta-cnpj/internal/lookup"
)

// Entry is one recorded lookup.
type Entry struct {
	ID        string
	CNPJ      string
	LegalName string
	Status    string
	Regime    string
	QueriedAt time.Time
}

// Store records lookups in SQLite via modernc.org/sqlite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path and configures WAL mode.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "history: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "history: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS lookups (
	id         TEXT PRIMARY KEY,
	cnpj       TEXT NOT NULL,
	legal_name TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT '',
	regime     TEXT NOT NULL DEFAULT '',
	queried_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lookups_cnpj ON lookups(cnpj);
CREATE INDEX IF NOT EXISTS idx_lookups_queried_at ON lookups(queried_at);
`

// Migrate creates the schema when missing.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "history: migrate")
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one resolved lookup.
func (s *Store) Record(ctx context.Context, res *lookup.Result) (*Entry, error) {
	e := &Entry{
		ID:        uuid.New().String(),
		CNPJ:      res.Identifier,
		LegalName: res.Profile.LegalName,
		Status:    res.Status.Label,
		Regime:    res.Regime,
		QueriedAt: res.QueriedAt.UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lookups (id, cnpj, legal_name, status, regime, queried_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.CNPJ, e.LegalName, e.Status, e.Regime, e.QueriedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "history: insert lookup")
	}
	return e, nil
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, cnpj, legal_name, status, regime, queried_at
		 FROM lookups ORDER BY queried_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "history: query recent")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.CNPJ, &e.LegalName, &e.Status, &e.Regime, &e.QueriedAt); err != nil {
			return nil, eris.Wrap(err, "history: scan entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "history: iterate")
}
