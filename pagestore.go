package spacetraveling

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrPageNotStored is returned when no rendered page exists for a path.
var ErrPageNotStored = sql.ErrNoRows

// renderedAtLayout has a fixed width so stored timestamps sort as text.
const renderedAtLayout = "2006-01-02T15:04:05.000000000Z"

// StoredPage is a rendered HTML page kept between requests and restarts.
type StoredPage struct {
	Path       string
	Status     int
	HTML       []byte
	Size       int
	RenderedAt time.Time
}

// Fresh reports whether the page is younger than window.
func (p StoredPage) Fresh(window time.Duration) bool {
	return time.Since(p.RenderedAt) < window
}

// PageStore wraps a SQLite database of rendered pages. It only caches output;
// the content itself always comes from the content store.
type PageStore struct {
	db *sql.DB
}

// NewPageStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and creates the schema.
func NewPageStore(path string) (*PageStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed while a page is being written; the busy
	// timeout makes concurrent writers wait instead of failing.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &PageStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *PageStore) Close() error {
	return s.db.Close()
}

func (s *PageStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS pages (
    path TEXT PRIMARY KEY,
    status INTEGER NOT NULL,
    html BLOB NOT NULL,
    rendered_at TEXT NOT NULL
);
`)
	return err
}

// Get returns the stored page for path, or ErrPageNotStored.
func (s *PageStore) Get(path string) (StoredPage, error) {
	var status int
	var html []byte
	var renderedAt string
	err := s.db.QueryRow(`SELECT status, html, rendered_at FROM pages WHERE path = ?`, path).
		Scan(&status, &html, &renderedAt)
	if err != nil {
		return StoredPage{}, err
	}
	t, err := time.Parse(renderedAtLayout, renderedAt)
	if err != nil {
		return StoredPage{}, err
	}
	return StoredPage{Path: path, Status: status, HTML: html, Size: len(html), RenderedAt: t}, nil
}

// Save inserts or replaces the page at p.Path.
func (s *PageStore) Save(p StoredPage) error {
	if p.RenderedAt.IsZero() {
		p.RenderedAt = time.Now()
	}
	_, err := s.db.Exec(`
INSERT INTO pages (path, status, html, rendered_at) VALUES (?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET status = excluded.status, html = excluded.html, rendered_at = excluded.rendered_at
`, p.Path, p.Status, p.HTML, p.RenderedAt.UTC().Format(renderedAtLayout))
	return err
}

// List returns every stored page without its HTML, ordered by path.
func (s *PageStore) List() ([]StoredPage, error) {
	rows, err := s.db.Query(`SELECT path, status, length(html), rendered_at FROM pages ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []StoredPage
	for rows.Next() {
		var path, renderedAt string
		var status, size int
		if err := rows.Scan(&path, &status, &size, &renderedAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(renderedAtLayout, renderedAt)
		if err != nil {
			return nil, err
		}
		pages = append(pages, StoredPage{Path: path, Status: status, Size: size, RenderedAt: t})
	}
	return pages, rows.Err()
}

// Delete removes the page at path. Deleting a missing page is not an error.
func (s *PageStore) Delete(path string) error {
	_, err := s.db.Exec(`DELETE FROM pages WHERE path = ?`, path)
	return err
}

// Purge removes every stored page and returns how many were removed.
func (s *PageStore) Purge() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM pages`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PurgeOlderThan removes pages rendered before cutoff.
func (s *PageStore) PurgeOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM pages WHERE rendered_at < ?`, cutoff.UTC().Format(renderedAtLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func isPageNotStored(err error) bool {
	return errors.Is(err, ErrPageNotStored)
}
