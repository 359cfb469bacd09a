package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"postforge/internal/core"
	"postforge/internal/logger"
)

// Store is the persistent publication history backed by SQLite. It answers
// duplicate-topic questions for keyword selection and records successful
// publishes. Lookup failures degrade to "not published" — re-publishing a
// topic is tolerable, blocking the pipeline on storage trouble is not.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the history database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "postforge.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	publicationsTable := `
	CREATE TABLE IF NOT EXISTS publications (
		keyword TEXT PRIMARY KEY,
		title TEXT,
		external_post_id TEXT,
		url TEXT,
		category TEXT,
		template_id TEXT,
		status TEXT,
		published_at DATETIME
	);`

	cursorTable := `
	CREATE TABLE IF NOT EXISTS evergreen_cursor (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		position INTEGER NOT NULL
	);`

	for _, table := range []string{publicationsTable, cursorTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record upserts a publication record. A later record for the same keyword
// overwrites the earlier one (last-write-wins on the keyword key).
func (s *Store) Record(rec core.PublicationRecord) error {
	if rec.PublishedAt.IsZero() {
		rec.PublishedAt = time.Now().UTC()
	}

	query, args, err := sq.
		Replace("publications").
		Columns("keyword", "title", "external_post_id", "url", "category", "template_id", "status", "published_at").
		Values(rec.Keyword, rec.Title, rec.ExternalPostID, rec.URL, rec.Category, rec.TemplateID, rec.Status, rec.PublishedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build record query: %w", err)
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("upsert publication: %w", err)
	}
	return nil
}

// IsPublished reports whether an exact keyword match exists in history
// within the trailing window. Storage errors log a warning and report
// false.
func (s *Store) IsPublished(keyword string, windowDays int) bool {
	query, args, err := sq.
		Select("COUNT(*)").
		From("publications").
		Where(sq.Eq{"keyword": keyword}).
		Where(sq.GtOrEq{"published_at": windowStart(windowDays)}).
		ToSql()
	if err != nil {
		logger.Warn("history lookup degraded to not-published", "keyword", keyword, "error", err.Error())
		return false
	}

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		logger.Warn("history lookup degraded to not-published", "keyword", keyword, "error", err.Error())
		return false
	}
	return count > 0
}

// IsSimilar reports whether a recently published keyword or title is a
// near-duplicate of the candidate. Exact containment in either direction
// counts immediately; otherwise token overlap against the shorter token set
// must reach similarityThreshold. Storage errors degrade to false.
func (s *Store) IsSimilar(keyword string, windowDays int) bool {
	recent, err := s.Recent(windowDays)
	if err != nil {
		logger.Warn("history similarity check degraded to not-similar", "keyword", keyword, "error", err.Error())
		return false
	}

	for _, rec := range recent {
		if containsEither(keyword, rec.Keyword) || containsEither(keyword, rec.Title) {
			return true
		}
		if tokenOverlap(keyword, rec.Keyword) >= similarityThreshold ||
			tokenOverlap(keyword, rec.Title) >= similarityThreshold {
			return true
		}
	}
	return false
}

// Recent returns publication records within the trailing window, newest
// first.
func (s *Store) Recent(windowDays int) ([]core.PublicationRecord, error) {
	query, args, err := sq.
		Select("keyword", "title", "external_post_id", "url", "category", "template_id", "status", "published_at").
		From("publications").
		Where(sq.GtOrEq{"published_at": windowStart(windowDays)}).
		OrderBy("published_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent publications: %w", err)
	}
	defer rows.Close()

	var records []core.PublicationRecord
	for rows.Next() {
		var rec core.PublicationRecord
		if err := rows.Scan(&rec.Keyword, &rec.Title, &rec.ExternalPostID, &rec.URL,
			&rec.Category, &rec.TemplateID, &rec.Status, &rec.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan publication: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear removes all publication records.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM publications"); err != nil {
		return fmt.Errorf("clear publications: %w", err)
	}
	return nil
}

// NextEvergreen returns the next keyword from the fixed rotation list,
// advancing and wrapping the persisted cursor.
func (s *Store) NextEvergreen(keywords []string) (string, error) {
	if len(keywords) == 0 {
		return "", fmt.Errorf("evergreen keyword list is empty")
	}

	var pos int
	err := s.db.QueryRow("SELECT position FROM evergreen_cursor WHERE id = 1").Scan(&pos)
	if err == sql.ErrNoRows {
		pos = 0
	} else if err != nil {
		return "", fmt.Errorf("read evergreen cursor: %w", err)
	}

	keyword := keywords[pos%len(keywords)]
	next := (pos + 1) % len(keywords)

	if _, err := s.db.Exec(
		"INSERT OR REPLACE INTO evergreen_cursor (id, position) VALUES (1, ?)", next); err != nil {
		return "", fmt.Errorf("advance evergreen cursor: %w", err)
	}
	return keyword, nil
}

func windowStart(windowDays int) time.Time {
	if windowDays <= 0 {
		windowDays = 7
	}
	return time.Now().UTC().AddDate(0, 0, -windowDays)
}

const similarityThreshold = 0.6

func containsEither(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// tokenOverlap measures overlap between two keyword phrases relative to the
// smaller token set.
func tokenOverlap(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	if len(tb) < len(ta) {
		ta, tb = tb, ta
	}
	var matches int
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(ta))
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = struct{}{}
	}
	return set
}
