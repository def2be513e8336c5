// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/listview/store.go
// Summary: SQLite-backed item database for the list viewer.
// Usage: Open a database, Import files into it, then read items by position.
// Only the page around a requested position is kept in memory.

package listview

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const storeSchemaVersion = 1

const storeSchema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL DEFAULT '',  -- file the item was imported from
    lang TEXT NOT NULL DEFAULT '',    -- language name as detected at import
    content TEXT NOT NULL
);
`

// pageSize is how many neighbouring items one cache miss loads.
const pageSize = 64

// maxCached bounds the entry cache; it is dropped wholesale when full.
const maxCached = 8 * pageSize

// ErrNoItem is returned for positions outside the store.
var ErrNoItem = errors.New("listview: no such item")

// Entry is one stored item.
type Entry struct {
	ID      int64
	Source  string
	Lang    string
	Content string
}

// Store holds items ordered by insertion. Positions are dense 0..Len()-1.
// A Store is not safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	ids    []int64
	cache  map[int64]Entry
}

// Open opens or creates the database at path.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=cache_size(-8000)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.Exec("INSERT OR IGNORE INTO schema_version (version) VALUES (?)", storeSchemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to record schema version: %w", err)
	}

	s := &Store{db: db, logger: logger.Named("store"), cache: make(map[int64]Entry)}
	if err := s.loadIDs(); err != nil {
		db.Close()
		return nil, err
	}
	s.logger.Debug("opened item store", zap.String("path", path), zap.Int("items", len(s.ids)))
	return s, nil
}

func (s *Store) loadIDs() error {
	rows, err := s.db.Query("SELECT id FROM items ORDER BY id")
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()
	s.ids = s.ids[:0]
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		s.ids = append(s.ids, id)
	}
	return rows.Err()
}

// Len returns the number of items.
func (s *Store) Len() int { return len(s.ids) }

// Item returns the item at position i, loading its page on a cache miss.
func (s *Store) Item(i int) (Entry, error) {
	if i < 0 || i >= len(s.ids) {
		return Entry{}, fmt.Errorf("%w: %d of %d", ErrNoItem, i, len(s.ids))
	}
	if e, ok := s.cache[s.ids[i]]; ok {
		return e, nil
	}
	if err := s.loadPage(i); err != nil {
		return Entry{}, err
	}
	e, ok := s.cache[s.ids[i]]
	if !ok {
		return Entry{}, fmt.Errorf("%w: id %d vanished", ErrNoItem, s.ids[i])
	}
	return e, nil
}

// loadPage fetches the page containing position i in one query.
func (s *Store) loadPage(i int) error {
	start := i - i%pageSize
	end := min(start+pageSize, len(s.ids)) - 1
	if len(s.cache)+pageSize > maxCached {
		clear(s.cache)
	}
	rows, err := s.db.Query(
		"SELECT id, source, lang, content FROM items WHERE id BETWEEN ? AND ? ORDER BY id",
		s.ids[start], s.ids[end])
	if err != nil {
		return fmt.Errorf("failed to load items %d..%d: %w", start, end, err)
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Source, &e.Lang, &e.Content); err != nil {
			return err
		}
		s.cache[e.ID] = e
		n++
	}
	s.logger.Debug("loaded item page", zap.Int("start", start), zap.Int("rows", n))
	return rows.Err()
}

// Append adds one item at the end and returns its position, which is also
// the edit index for the list.
func (s *Store) Append(content, lang string) (int, error) {
	res, err := s.db.Exec("INSERT INTO items (lang, content) VALUES (?, ?)", lang, content)
	if err != nil {
		return 0, fmt.Errorf("failed to append item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.ids = append(s.ids, id)
	return len(s.ids) - 1, nil
}

// Delete removes the item at position i. Later items shift up by one.
func (s *Store) Delete(i int) error {
	if i < 0 || i >= len(s.ids) {
		return fmt.Errorf("%w: %d of %d", ErrNoItem, i, len(s.ids))
	}
	id := s.ids[i]
	if _, err := s.db.Exec("DELETE FROM items WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	delete(s.cache, id)
	return nil
}

// Import splits each file into paragraphs and appends them as items. It
// returns the position of the first new item. Binary files are skipped.
func (s *Store) Import(paths ...string) (int, error) {
	first := len(s.ids)
	tx, err := s.db.Begin()
	if err != nil {
		return first, fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO items (source, lang, content) VALUES (?, ?, ?)")
	if err != nil {
		return first, fmt.Errorf("failed to prepare import: %w", err)
	}
	defer stmt.Close()

	var added []int64
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return first, fmt.Errorf("read %s: %w", path, err)
		}
		if enry.IsBinary(data) {
			s.logger.Info("skipping binary file", zap.String("path", path))
			continue
		}
		lang := enry.GetLanguage(filepath.Base(path), data)
		paras := Paragraphs(string(data))
		for _, p := range paras {
			res, err := stmt.Exec(path, lang, p)
			if err != nil {
				return first, fmt.Errorf("import %s: %w", path, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return first, err
			}
			added = append(added, id)
		}
		s.logger.Debug("imported file",
			zap.String("path", path), zap.String("lang", lang), zap.Int("items", len(paras)))
	}
	if err := tx.Commit(); err != nil {
		return first, fmt.Errorf("failed to commit import: %w", err)
	}
	s.ids = append(s.ids, added...)
	return first, nil
}

// Paragraphs splits text on blank lines. Paragraphs keep their inner line
// breaks; surrounding blank lines are dropped.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, "\n"))
			cur = cur[:0]
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, strings.TrimRight(line, " \t"))
	}
	flush()
	return out
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
