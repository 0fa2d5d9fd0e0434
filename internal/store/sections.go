package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/bylawgest/internal/doctree"
)

// Inserted pairs a generated section id with the DocumentOrder of the row it
// was assigned to.
type Inserted struct {
	ID            int64
	DocumentOrder int
}

var insertColumns = []string{
	"document_id", "section_type", "depth", "number", "prefix", "title",
	"citation", "text", "origin_line", "temp_id", "parent_temp_id",
	"ordinal", "document_order", "created_at", "updated_at",
}

// Bind parameter limits per statement.
const (
	sqliteMaxParams   = 32766
	postgresMaxParams = 65535
)

// MaxInsertRows is the most sections one insert statement can carry before
// the dialect's bind parameter limit is reached.
func (s *Store) MaxInsertRows() int {
	limit := postgresMaxParams
	if s.dialect == SQLite {
		limit = sqliteMaxParams
	}
	return limit / len(insertColumns)
}

// InsertSections stores sections without parent links using multi-row
// statements of at most MaxInsertRows rows each. The result is in the same
// order as sections.
func (s *Store) InsertSections(ctx context.Context, documentID string, sections []doctree.TreeSection) ([]Inserted, error) {
	if len(sections) == 0 {
		return nil, nil
	}
	limit := s.MaxInsertRows()
	out := make([]Inserted, 0, len(sections))
	for start := 0; start < len(sections); start += limit {
		end := min(start+limit, len(sections))
		inserted, err := s.insertRows(ctx, documentID, sections[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, inserted...)
	}
	return out, nil
}

func (s *Store) insertRows(ctx context.Context, documentID string, sections []doctree.TreeSection) ([]Inserted, error) {
	now := time.Now().UTC()
	var b strings.Builder
	b.WriteString("INSERT INTO sections (")
	b.WriteString(strings.Join(insertColumns, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(sections)*len(insertColumns))
	for i, sec := range sections {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j := range insertColumns {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(len(args) + j + 1))
		}
		b.WriteByte(')')
		args = append(args,
			documentID, sec.Type, sec.Depth, sec.Number, sec.Prefix, sec.Title,
			sec.Citation, sec.Text, sec.OriginLine, sec.TempID, sec.ParentTempID,
			sec.Ordinal, sec.DocumentOrder, now, now,
		)
	}
	b.WriteString(" RETURNING id, document_order")

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("insert %d sections: %w", len(sections), err)
	}
	defer rows.Close()

	// RETURNING order is not guaranteed; match rows back by document_order.
	byOrder := make(map[int]int64, len(sections))
	for rows.Next() {
		var id int64
		var order int
		if err := rows.Scan(&id, &order); err != nil {
			return nil, fmt.Errorf("scan inserted section: %w", err)
		}
		byOrder[order] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("insert %d sections: %w", len(sections), err)
	}

	out := make([]Inserted, len(sections))
	for i, sec := range sections {
		id, ok := byOrder[sec.DocumentOrder]
		if !ok {
			return nil, fmt.Errorf("insert sections: no id returned for document order %d", sec.DocumentOrder)
		}
		out[i] = Inserted{ID: id, DocumentOrder: sec.DocumentOrder}
	}
	return out, nil
}

// LinkSection sets a section's parent and materialized ancestor path.
func (s *Store) LinkSection(ctx context.Context, id int64, parentID *int64, pathIDs []int64, pathOrdinals []int) error {
	ids, err := json.Marshal(pathIDs)
	if err != nil {
		return fmt.Errorf("encode path ids: %w", err)
	}
	ords, err := json.Marshal(pathOrdinals)
	if err != nil {
		return fmt.Errorf("encode path ordinals: %w", err)
	}

	var parent any
	if parentID != nil {
		parent = *parentID
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE sections
		SET parent_section_id = $1, path_ids = $2, path_ordinals = $3, updated_at = $4
		WHERE id = $5
	`, parent, string(ids), string(ords), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("link section %d: %w", id, err)
	}
	return expectOne(res, id)
}

// UpdateSectionText replaces a section's body text.
func (s *Store) UpdateSectionText(ctx context.Context, id int64, text string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sections SET text = $1, updated_at = $2 WHERE id = $3`,
		text, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update section %d: %w", id, err)
	}
	return expectOne(res, id)
}

func expectOne(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("section %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const sectionColumns = `id, document_id, parent_section_id, section_type, depth, number, prefix,
	title, citation, text, origin_line, temp_id, parent_temp_id, ordinal, document_order,
	path_ids, path_ordinals`

func scanSection(row interface{ Scan(...any) error }) (doctree.PersistedSection, error) {
	var (
		sec      doctree.PersistedSection
		parent   sql.NullInt64
		pathIDs  string
		pathOrds string
	)
	err := row.Scan(&sec.ID, &sec.DocumentID, &parent, &sec.Type, &sec.Depth, &sec.Number, &sec.Prefix,
		&sec.Title, &sec.Citation, &sec.Text, &sec.OriginLine, &sec.TempID, &sec.ParentTempID,
		&sec.Ordinal, &sec.DocumentOrder, &pathIDs, &pathOrds)
	if err != nil {
		return sec, err
	}
	if parent.Valid {
		p := parent.Int64
		sec.ParentSectionID = &p
	}
	if err := json.Unmarshal([]byte(pathIDs), &sec.PathIDs); err != nil {
		return sec, fmt.Errorf("decode path ids of section %d: %w", sec.ID, err)
	}
	if err := json.Unmarshal([]byte(pathOrds), &sec.PathOrdinals); err != nil {
		return sec, fmt.Errorf("decode path ordinals of section %d: %w", sec.ID, err)
	}
	return sec, nil
}

func (s *Store) querySections(ctx context.Context, query string, args ...any) ([]doctree.PersistedSection, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []doctree.PersistedSection{}
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

// ListSections returns a document's sections in DocumentOrder.
func (s *Store) ListSections(ctx context.Context, documentID string) ([]doctree.PersistedSection, error) {
	out, err := s.querySections(ctx, `SELECT `+sectionColumns+` FROM sections
		WHERE document_id = $1 ORDER BY document_order`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list sections of %s: %w", documentID, err)
	}
	return out, nil
}

// GetSection loads one section of a document.
func (s *Store) GetSection(ctx context.Context, documentID string, id int64) (doctree.PersistedSection, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sectionColumns+` FROM sections
		WHERE document_id = $1 AND id = $2`, documentID, id)
	sec, err := scanSection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return doctree.PersistedSection{}, ErrNotFound
	}
	if err != nil {
		return doctree.PersistedSection{}, fmt.Errorf("get section %d: %w", id, err)
	}
	return sec, nil
}

// Ancestors returns the sections on the stored path of a section, root
// first, excluding the section itself.
func (s *Store) Ancestors(ctx context.Context, documentID string, id int64) ([]doctree.PersistedSection, error) {
	sec, err := s.GetSection(ctx, documentID, id)
	if err != nil {
		return nil, err
	}
	if len(sec.PathIDs) <= 1 {
		return []doctree.PersistedSection{}, nil
	}
	path := sec.PathIDs[:len(sec.PathIDs)-1]

	placeholders := make([]string, len(path))
	args := make([]any, 0, len(path)+1)
	args = append(args, documentID)
	for i, pid := range path {
		placeholders[i] = "$" + strconv.Itoa(i+2)
		args = append(args, pid)
	}
	found, err := s.querySections(ctx, `SELECT `+sectionColumns+` FROM sections
		WHERE document_id = $1 AND id IN (`+strings.Join(placeholders, ", ")+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("ancestors of section %d: %w", id, err)
	}

	byID := make(map[int64]doctree.PersistedSection, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	out := make([]doctree.PersistedSection, 0, len(path))
	for _, pid := range path {
		if f, ok := byID[pid]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}
