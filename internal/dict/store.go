package dict

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Store holds the word list in sqlite.
type Store struct {
	db *sql.DB
}

// Open connects to the database at dsn and creates the schema if needed.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS words (
			word       TEXT PRIMARY KEY,
			definition TEXT NOT NULL DEFAULT ''
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Count returns the number of words loaded.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&n)
	return n, err
}

// Lookup returns the entry for a word, or a zero Entry when unknown.
func (s *Store) Lookup(ctx context.Context, word string) (Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx,
		`SELECT word, definition FROM words WHERE word = ?`, word,
	).Scan(&e.Word, &e.Definition)
	if err == sql.ErrNoRows {
		return Entry{}, nil
	}
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Random returns a uniformly random entry.
func (s *Store) Random(ctx context.Context) (Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx,
		`SELECT word, definition FROM words ORDER BY RANDOM() LIMIT 1`,
	).Scan(&e.Word, &e.Definition)
	if err == sql.ErrNoRows {
		return Entry{}, nil
	}
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Add inserts or replaces a single entry.
func (s *Store) Add(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO words (word, definition) VALUES (?, ?)`,
		e.Word, e.Definition,
	)
	return err
}

// LoadWordFile bulk-imports a newline-separated word list. Lines may carry
// a tab-separated definition; blank lines and lines starting with # are
// skipped. Returns the number of words imported.
func (s *Store) LoadWordFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO words (word, definition) VALUES (?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, def := line, ""
		if i := strings.IndexByte(line, '\t'); i >= 0 {
			word, def = line[:i], strings.TrimSpace(line[i+1:])
		}
		if _, err := stmt.ExecContext(ctx, word, def); err != nil {
			return n, err
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, err
	}
	return n, tx.Commit()
}
