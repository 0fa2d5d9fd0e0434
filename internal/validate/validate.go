// Package validate checks the structural integrity of a stored document.
// It only reports; nothing is repaired.
package validate

import (
	"context"
	"fmt"
	"slices"

	"github.com/dgallion1/bylawgest/internal/doctree"
	"github.com/dgallion1/bylawgest/internal/persist"
)

// Kind names a class of violation.
type Kind string

const (
	PathLength         Kind = "path_length"
	PathOrdinalsLength Kind = "path_ordinals_length"
	PathTail           Kind = "path_tail"
	MissingParent      Kind = "missing_parent"
	ForeignParent      Kind = "foreign_parent"
	DocumentOrder      Kind = "document_order"
	LinkFailed         Kind = "link_failed"
)

// Violation is one failed check. SectionID is zero for document-level
// problems.
type Violation struct {
	Kind          Kind   `json:"kind"`
	SectionID     int64  `json:"section_id,omitempty"`
	Citation      string `json:"citation,omitempty"`
	DocumentOrder int    `json:"document_order,omitempty"`
	Message       string `json:"message"`
}

// Report is the result of validating one document.
type Report struct {
	DocumentID   string      `json:"document_id"`
	SectionCount int         `json:"section_count"`
	Violations   []Violation `json:"violations"`
}

// OK reports whether no violations were found.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// AddLinkFailures folds rows the writer could not link into the report.
func (r *Report) AddLinkFailures(rows []persist.RowResult) {
	for _, row := range rows {
		r.Violations = append(r.Violations, Violation{
			Kind:          LinkFailed,
			SectionID:     row.SectionID,
			Citation:      row.Citation,
			DocumentOrder: row.DocumentOrder,
			Message:       "link update failed: " + row.Error,
		})
	}
}

// SectionLoader loads a document's stored sections. *store.Store
// satisfies it.
type SectionLoader interface {
	ListSections(ctx context.Context, documentID string) ([]doctree.PersistedSection, error)
}

// Validator validates stored documents.
type Validator struct {
	loader SectionLoader
}

// New returns a Validator reading through loader.
func New(loader SectionLoader) *Validator {
	return &Validator{loader: loader}
}

// Validate loads documentID and checks it. The error is non-nil only when
// the sections cannot be loaded.
func (v *Validator) Validate(ctx context.Context, documentID string) (*Report, error) {
	sections, err := v.loader.ListSections(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	return &Report{
		DocumentID:   documentID,
		SectionCount: len(sections),
		Violations:   Sections(sections),
	}, nil
}

// Sections checks a document's sections and returns every violation found.
func Sections(sections []doctree.PersistedSection) []Violation {
	violations := []Violation{}
	add := func(kind Kind, s doctree.PersistedSection, format string, args ...any) {
		violations = append(violations, Violation{
			Kind:          kind,
			SectionID:     s.ID,
			Citation:      s.Citation,
			DocumentOrder: s.DocumentOrder,
			Message:       fmt.Sprintf(format, args...),
		})
	}

	ids := make(map[int64]bool, len(sections))
	for _, s := range sections {
		ids[s.ID] = true
	}

	for _, s := range sections {
		if len(s.PathIDs) != s.Depth+1 {
			add(PathLength, s, "path has %d ids, want %d for depth %d", len(s.PathIDs), s.Depth+1, s.Depth)
		}
		if len(s.PathOrdinals) != s.Depth+1 {
			add(PathOrdinalsLength, s, "path has %d ordinals, want %d for depth %d", len(s.PathOrdinals), s.Depth+1, s.Depth)
		}
		if len(s.PathIDs) == 0 || s.PathIDs[len(s.PathIDs)-1] != s.ID {
			add(PathTail, s, "path does not end with the section's own id %d", s.ID)
		}
		switch {
		case s.Depth > 0 && s.ParentSectionID == nil:
			add(MissingParent, s, "section at depth %d has no parent", s.Depth)
		case s.ParentSectionID != nil && !ids[*s.ParentSectionID]:
			add(ForeignParent, s, "parent %d is not part of this document", *s.ParentSectionID)
		}
	}

	orders := make([]int, len(sections))
	for i, s := range sections {
		orders[i] = s.DocumentOrder
	}
	slices.Sort(orders)
	for i, o := range orders {
		if o != i+1 {
			violations = append(violations, Violation{
				Kind:    DocumentOrder,
				Message: fmt.Sprintf("document order is not 1..%d: position %d holds %d", len(orders), i+1, o),
			})
			break
		}
	}
	return violations
}
