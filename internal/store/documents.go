package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Document is one imported bylaws document.
type Document struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Filename     string    `json:"filename,omitempty"`
	Source       string    `json:"source,omitempty"`
	ContentHash  string    `json:"content_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	SectionCount int       `json:"section_count"`
}

// CreateDocument inserts a document row. CreatedAt defaults to now.
func (s *Store) CreateDocument(ctx context.Context, doc Document) (Document, error) {
	if doc.ID == "" {
		return Document{}, errors.New("document id is required")
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, filename, source, content_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, doc.ID, doc.Title, doc.Filename, doc.Source, doc.ContentHash, doc.CreatedAt)
	if err != nil {
		return Document{}, fmt.Errorf("insert document %s: %w", doc.ID, err)
	}
	return doc, nil
}

const documentColumns = `d.id, d.title, d.filename, d.source, d.content_hash, d.created_at,
	(SELECT COUNT(*) FROM sections s WHERE s.document_id = d.id)`

func scanDocument(row interface{ Scan(...any) error }) (Document, error) {
	var doc Document
	err := row.Scan(&doc.ID, &doc.Title, &doc.Filename, &doc.Source, &doc.ContentHash, &doc.CreatedAt, &doc.SectionCount)
	return doc, err
}

// GetDocument loads a document by id.
func (s *Store) GetDocument(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents d WHERE d.id = $1`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, nil
}

// FindDocumentByHash returns the oldest document with the given content hash.
func (s *Store) FindDocumentByHash(ctx context.Context, hash string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+` FROM documents d
		WHERE d.content_hash = $1
		ORDER BY d.created_at ASC
		LIMIT 1
	`, hash)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("find document by hash: %w", err)
	}
	return doc, nil
}

// ListDocuments returns all documents, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents d ORDER BY d.created_at DESC, d.id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document and, by cascade, all of its sections.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
