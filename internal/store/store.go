// Package store keeps the client's local collections: search history,
// saved articles, and the active language. In-memory state is
// authoritative for the session; the sqlite backing is best-effort and a
// broken database only costs persistence across restarts, never an error
// surfaced to the UI.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/dmehta/aionex/internal/logging"
)

// historyLimit caps the search history; the oldest entry beyond it is
// evicted.
const historyLimit = 20

const schemaVersion = "1"

// Article is the reduced projection kept for saved articles.
type Article struct {
	Link  string
	Title string
}

// Store owns the local collections. All methods are safe for concurrent
// use, though the TUI only touches it from the update loop.
type Store struct {
	mu       sync.Mutex
	history  []string
	saved    []Article
	language string
	db       *sql.DB
}

// Open loads the collections from the sqlite database at path, creating
// it as needed. Any storage failure degrades to a memory-only store.
func Open(path string) *Store {
	s := &Store{}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logging.Warn("store: falling back to memory-only", "err", err)
		return s
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		logging.Warn("store: falling back to memory-only", "err", err)
		return s
	}
	db.SetMaxOpenConns(1)
	if err := initSchema(db); err != nil {
		logging.Warn("store: falling back to memory-only", "err", err)
		db.Close()
		return s
	}
	s.db = db
	s.loadAll()
	return s
}

// OpenMemory returns a store with no persistence, for tests and as the
// degraded mode.
func OpenMemory() *Store {
	return &Store{}
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Persistent reports whether a database backs this store.
func (s *Store) Persistent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db != nil
}

// AddHistory records a query: duplicates move to the front, and the list
// is truncated to the history cap.
func (s *Store) AddHistory(query string) {
	if query == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]string, 0, len(s.history)+1)
	next = append(next, query)
	for _, q := range s.history {
		if q != query {
			next = append(next, q)
		}
	}
	if len(next) > historyLimit {
		next = next[:historyLimit]
	}
	s.history = next
	s.persistHistory()
}

// RemoveHistory deletes all occurrences of query.
func (s *Store) RemoveHistory(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.history[:0]
	for _, q := range s.history {
		if q != query {
			next = append(next, q)
		}
	}
	s.history = next
	s.persistHistory()
}

// History returns the queries, most recent first.
func (s *Store) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// AddSaved stores an article. Saving an already-saved link is a no-op.
func (s *Store) AddSaved(article Article) {
	if article.Link == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.saved {
		if a.Link == article.Link {
			return
		}
	}
	s.saved = append([]Article{article}, s.saved...)
	s.persistSaved()
}

// RemoveSaved deletes the entry with the given link.
func (s *Store) RemoveSaved(link string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.saved[:0]
	for _, a := range s.saved {
		if a.Link != link {
			next = append(next, a)
		}
	}
	s.saved = next
	s.persistSaved()
}

// IsSaved reports whether a link is in the saved collection.
func (s *Store) IsSaved(link string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.saved {
		if a.Link == link {
			return true
		}
	}
	return false
}

// Saved returns the saved articles, most recently saved first.
func (s *Store) Saved() []Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Article(nil), s.saved...)
}

// Language returns the persisted language code, empty when never set.
func (s *Store) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// SetLanguage records the active language code.
func (s *Store) SetLanguage(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = code
	if s.db == nil {
		return
	}
	if _, err := s.db.Exec(
		`INSERT INTO meta (key, value) VALUES ('language', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, code); err != nil {
		logging.Warn("store: persisting language", "err", err)
	}
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			position INTEGER PRIMARY KEY,
			query    TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS saved (
			position INTEGER PRIMARY KEY,
			link     TEXT NOT NULL UNIQUE,
			title    TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	_, err = db.Exec(
		`INSERT INTO meta (key, value) VALUES ('schema_version', ?)
		 ON CONFLICT(key) DO NOTHING`, schemaVersion)
	return err
}

func (s *Store) loadAll() {
	rows, err := s.db.Query(`SELECT query FROM history ORDER BY position`)
	if err == nil {
		for rows.Next() {
			var q string
			if rows.Scan(&q) == nil {
				s.history = append(s.history, q)
			}
		}
		rows.Close()
	} else {
		logging.Warn("store: loading history", "err", err)
	}
	if len(s.history) > historyLimit {
		s.history = s.history[:historyLimit]
	}

	rows, err = s.db.Query(`SELECT link, title FROM saved ORDER BY position`)
	if err == nil {
		for rows.Next() {
			var a Article
			if rows.Scan(&a.Link, &a.Title) == nil {
				s.saved = append(s.saved, a)
			}
		}
		rows.Close()
	} else {
		logging.Warn("store: loading saved articles", "err", err)
	}

	row := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'language'`)
	var lang string
	if row.Scan(&lang) == nil {
		s.language = lang
	}
}

// persistHistory rewrites the history table. The collection is capped at
// twenty rows, so a full rewrite inside one transaction is cheaper than
// tracking deltas. Callers hold the mutex.
func (s *Store) persistHistory() {
	if s.db == nil {
		return
	}
	tx, err := s.db.Begin()
	if err != nil {
		logging.Warn("store: persisting history", "err", err)
		return
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM history`); err != nil {
		logging.Warn("store: persisting history", "err", err)
		return
	}
	for i, q := range s.history {
		if _, err := tx.Exec(`INSERT INTO history (position, query) VALUES (?, ?)`, i, q); err != nil {
			logging.Warn("store: persisting history", "err", err)
			return
		}
	}
	if err := tx.Commit(); err != nil {
		logging.Warn("store: persisting history", "err", err)
	}
}

func (s *Store) persistSaved() {
	if s.db == nil {
		return
	}
	tx, err := s.db.Begin()
	if err != nil {
		logging.Warn("store: persisting saved articles", "err", err)
		return
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM saved`); err != nil {
		logging.Warn("store: persisting saved articles", "err", err)
		return
	}
	for i, a := range s.saved {
		if _, err := tx.Exec(`INSERT INTO saved (position, link, title) VALUES (?, ?, ?)`, i, a.Link, a.Title); err != nil {
			logging.Warn("store: persisting saved articles", "err", err)
			return
		}
	}
	if err := tx.Commit(); err != nil {
		logging.Warn("store: persisting saved articles", "err", err)
	}
}
