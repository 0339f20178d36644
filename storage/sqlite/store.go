package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/proposive/rfpbase/core"
	"github.com/proposive/rfpbase/storage"
)

// timeFormat is the column encoding for timestamps. The fractional
// second is fixed width so the TEXT columns compare lexicographically
// in chronological order, which the recency queries rely on.
// RFC3339Nano trims trailing fraction zeros and breaks that ordering.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store is the SQLite-backed document and search-log store.
type Store struct {
	db   *sql.DB
	path string
}

var (
	_ storage.DocumentStore  = (*Store)(nil)
	_ storage.SearchLogStore = (*Store)(nil)
)

// NewStore opens (or creates) the knowledge database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "knowledge.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewMemoryStore opens an in-memory store for testing.
func NewMemoryStore() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	s := &Store{db: db, path: ":memory:"}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT,
			content_hash TEXT,
			upload_date TEXT,
			file_size INTEGER,
			content_preview TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS document_contents (
			document_id TEXT,
			content TEXT,
			keywords TEXT,
			FOREIGN KEY (document_id) REFERENCES documents (id)
		)`,
		`CREATE TABLE IF NOT EXISTS search_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT,
			category TEXT,
			results_count INTEGER,
			search_time REAL,
			timestamp TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating tables: %w", err)
		}
	}
	return nil
}

// AddDocument validates the document and inserts the metadata row and
// the content row.
func (s *Store) AddDocument(ctx context.Context, doc *core.Document, content *core.DocumentContent) error {
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	keywordsJSON, err := json.Marshal(content.Keywords)
	if err != nil {
		return fmt.Errorf("encoding keywords: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, filename, category, description, content_hash, upload_date, file_size, content_preview)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Filename, string(doc.Category), doc.Description,
		doc.ContentHash, doc.UploadDate.UTC().Format(timeFormat), doc.FileSize, doc.ContentPreview)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO document_contents (document_id, content, keywords)
		VALUES (?, ?, ?)
	`, doc.ID, content.Content, string(keywordsJSON))
	if err != nil {
		return fmt.Errorf("inserting document content: %w", err)
	}

	return tx.Commit()
}

// GetDocument retrieves a document and its content by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*core.Document, *core.DocumentContent, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT d.id, d.filename, d.category, d.description, d.content_hash,
		       d.upload_date, d.file_size, d.content_preview, dc.content, dc.keywords
		FROM documents d
		JOIN document_contents dc ON d.id = dc.document_id
		WHERE d.id = ?
	`, id)

	var (
		doc          core.Document
		category     string
		uploadDate   string
		content      core.DocumentContent
		keywordsJSON string
	)
	err := row.Scan(&doc.ID, &doc.Filename, &category, &doc.Description, &doc.ContentHash,
		&uploadDate, &doc.FileSize, &doc.ContentPreview, &content.Content, &keywordsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("querying document: %w", err)
	}

	doc.Category = core.Category(category)
	doc.UploadDate = parseTime(uploadDate)
	content.DocumentID = doc.ID
	content.Keywords = decodeKeywords(keywordsJSON)
	return &doc, &content, nil
}

// DeleteDocument removes the metadata and content rows.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM document_contents WHERE document_id = ?", id); err != nil {
		return fmt.Errorf("deleting document content: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return tx.Commit()
}

// UpdateKeywords replaces the keyword list of a stored document.
func (s *Store) UpdateKeywords(ctx context.Context, id string, keywords []string) error {
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("encoding keywords: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE document_contents SET keywords = ? WHERE document_id = ?",
		string(keywordsJSON), id)
	if err != nil {
		return fmt.Errorf("updating keywords: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating keywords: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SearchCandidates retrieves documents matching query as a literal
// substring of content, keywords, or description. The predicate is a
// plain LIKE expression against the stored columns; short queries can
// match inside unrelated longer words, which is the intended behavior.
func (s *Store) SearchCandidates(ctx context.Context, query string, category core.Category, limit int) ([]storage.Candidate, error) {
	if query == "" {
		return nil, storage.ErrInvalidQuery
	}
	if limit <= 0 {
		limit = 20
	}

	stmt := `
		SELECT d.id, d.filename, d.category, d.description, d.upload_date, d.content_preview, dc.keywords
		FROM documents d
		JOIN document_contents dc ON d.id = dc.document_id
		WHERE (dc.content LIKE ? OR dc.keywords LIKE ? OR d.description LIKE ?)
	`
	pattern := "%" + query + "%"
	args := []any{pattern, pattern, pattern}

	if category != "" && category != core.CategoryAll {
		stmt += " AND d.category = ?"
		args = append(args, string(category))
	}

	stmt += " ORDER BY d.upload_date DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var candidates []storage.Candidate
	for rows.Next() {
		var (
			c            storage.Candidate
			cat          string
			uploadDate   string
			keywordsJSON string
		)
		if err := rows.Scan(&c.Document.ID, &c.Document.Filename, &cat, &c.Document.Description,
			&uploadDate, &c.Document.ContentPreview, &keywordsJSON); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		c.Document.Category = core.Category(cat)
		c.Document.UploadDate = parseTime(uploadDate)
		c.Keywords = decodeKeywords(keywordsJSON)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}
	return candidates, nil
}

// CountDocuments returns the total number of stored documents.
func (s *Store) CountDocuments(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// CountByCategory returns per-category document counts.
func (s *Store) CountByCategory(ctx context.Context) (map[core.Category]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT category, COUNT(*) FROM documents GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("counting by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[core.Category]int)
	for rows.Next() {
		var (
			category string
			count    int
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		counts[core.Category(category)] = count
	}
	return counts, rows.Err()
}

// RecentDocuments returns up to limit documents, newest first.
func (s *Store) RecentDocuments(ctx context.Context, limit int) ([]core.RecentDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filename, category, upload_date
		FROM documents
		ORDER BY upload_date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent documents: %w", err)
	}
	defer rows.Close()

	var recent []core.RecentDocument
	for rows.Next() {
		var (
			r          core.RecentDocument
			category   string
			uploadDate string
		)
		if err := rows.Scan(&r.Filename, &category, &uploadDate); err != nil {
			return nil, fmt.Errorf("scanning recent document: %w", err)
		}
		r.Category = core.Category(category)
		r.UploadDate = parseTime(uploadDate)
		recent = append(recent, r)
	}
	return recent, rows.Err()
}

// AddSearchLog appends one log row.
func (s *Store) AddSearchLog(ctx context.Context, entry *core.SearchLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_logs (query, category, results_count, search_time, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, entry.Query, string(entry.Category), entry.ResultsCount, entry.SearchTime,
		entry.Timestamp.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("inserting search log: %w", err)
	}
	return nil
}

// PopularQueries groups log rows newer than since by query text.
func (s *Store) PopularQueries(ctx context.Context, since time.Time, limit int) ([]core.QueryCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT query, COUNT(*) as search_count
		FROM search_logs
		WHERE timestamp > ?
		GROUP BY query
		ORDER BY search_count DESC
		LIMIT ?
	`, since.UTC().Format(timeFormat), limit)
	if err != nil {
		return nil, fmt.Errorf("querying popular queries: %w", err)
	}
	defer rows.Close()

	var popular []core.QueryCount
	for rows.Next() {
		var qc core.QueryCount
		if err := rows.Scan(&qc.Query, &qc.Count); err != nil {
			return nil, fmt.Errorf("scanning popular query: %w", err)
		}
		popular = append(popular, qc)
	}
	return popular, rows.Err()
}

func parseTime(value string) time.Time {
	// RFC3339Nano accepts any fraction width, including rows written
	// before the fixed-width encoding.
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func decodeKeywords(keywordsJSON string) []string {
	var keywords []string
	if err := json.Unmarshal([]byte(keywordsJSON), &keywords); err != nil {
		return nil
	}
	return keywords
}
