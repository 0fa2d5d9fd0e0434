package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/bylawgest/internal/hierarchy"
	"github.com/dgallion1/bylawgest/internal/persist"
	"github.com/dgallion1/bylawgest/internal/segment"
	"github.com/dgallion1/bylawgest/internal/store"
	"github.com/dgallion1/bylawgest/internal/validate"
)

// ErrNoSections is returned when no heading in the text matches the
// hierarchy.
var ErrNoSections = errors.New("no headings matched the hierarchy")

// Store is the storage an Importer needs. *store.Store satisfies it.
type Store interface {
	persist.SectionStore
	validate.SectionLoader
	CreateDocument(ctx context.Context, doc store.Document) (store.Document, error)
	FindDocumentByHash(ctx context.Context, hash string) (store.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// ImportRequest is one document to import.
type ImportRequest struct {
	DocumentID string // generated when empty
	Title      string
	Filename   string
	Source     string
	Text       string
	Force      bool // import even when identical content exists

	// OnPhase, when set, is called as the import enters each phase.
	OnPhase func(JobStatus)
}

// ImportResult describes a finished import.
type ImportResult struct {
	Document    store.Document
	ContentHash string
	// Duplicate is set when the import was skipped; Document is then the
	// existing document.
	Duplicate bool
	Structure *Structured
	Write     *persist.Result
	Report    *validate.Report
}

// Importer runs the structure, persist and validate phases for one document.
type Importer struct {
	store     Store
	writer    *persist.Writer
	validator *validate.Validator
	hierarchy *hierarchy.Config
	strategy  segment.DedupStrategy
	stats     *ImportStats
	log       *slog.Logger
}

// NewImporter wires an Importer. stats may be nil.
func NewImporter(s Store, writer *persist.Writer, cfg *hierarchy.Config, strategy segment.DedupStrategy, stats *ImportStats, log *slog.Logger) *Importer {
	if stats == nil {
		stats = NewImportStats(time.Hour)
	}
	return &Importer{
		store:     s,
		writer:    writer,
		validator: validate.New(s),
		hierarchy: cfg,
		strategy:  strategy,
		stats:     stats,
		log:       log,
	}
}

// Hierarchy returns the level configuration imports run with.
func (imp *Importer) Hierarchy() *hierarchy.Config {
	return imp.hierarchy
}

// Strategy returns the dedup strategy imports run with.
func (imp *Importer) Strategy() segment.DedupStrategy {
	return imp.strategy
}

// Stats returns the phase latency tracker.
func (imp *Importer) Stats() *ImportStats {
	return imp.stats
}

// Import structures req.Text and stores it. A phase-1 write failure is
// returned and leaves the document row with whatever batches landed; link
// failures and structural problems are reported in the result instead.
func (imp *Importer) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	start := time.Now()
	enter := func(s JobStatus) {
		if req.OnPhase != nil {
			req.OnPhase(s)
		}
	}

	hash := ContentHashHex([]byte(req.Text))
	res := &ImportResult{ContentHash: hash}
	log := imp.log.With("filename", req.Filename)

	if !req.Force {
		existing, err := imp.store.FindDocumentByHash(ctx, hash)
		switch {
		case err == nil:
			log.Info("duplicate document, skipping", "existing_doc_id", existing.ID)
			res.Duplicate = true
			res.Document = existing
			return res, nil
		case !errors.Is(err, store.ErrNotFound):
			log.Warn("dedup check failed, proceeding", "error", err)
		}
	}

	enter(StatusStructuring)
	phaseStart := time.Now()
	structured, err := Structure(req.Text, imp.hierarchy, imp.strategy)
	if err != nil {
		return nil, fmt.Errorf("structure: %w", err)
	}
	imp.stats.Record(PhaseStructure, time.Since(phaseStart))
	res.Structure = structured
	if len(structured.Sections) == 0 {
		return nil, ErrNoSections
	}
	if n := len(structured.Dedup.Dropped); n > 0 {
		log.Info("duplicate citations dropped", "dropped", n, "strategy", structured.Dedup.Strategy)
	}

	docID := req.DocumentID
	if docID == "" {
		docID = uuid.NewString()
	}
	log = log.With("doc_id", docID)

	enter(StatusPersisting)
	phaseStart = time.Now()
	doc, err := imp.store.CreateDocument(ctx, store.Document{
		ID:          docID,
		Title:       req.Title,
		Filename:    req.Filename,
		Source:      req.Source,
		ContentHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	res.Document = doc

	written, err := imp.writer.Write(ctx, docID, structured.Sections)
	if err != nil {
		// Drop the partial document so a re-run is not matched by its hash.
		if derr := imp.store.DeleteDocument(context.WithoutCancel(ctx), docID); derr != nil {
			log.Error("remove partial document", "error", derr)
		}
		return nil, fmt.Errorf("write sections: %w", err)
	}
	imp.stats.Record(PhasePersist, time.Since(phaseStart))
	res.Write = written
	res.Document.SectionCount = written.Inserted

	enter(StatusValidating)
	phaseStart = time.Now()
	report, err := imp.validator.Validate(ctx, docID)
	if err != nil {
		return res, fmt.Errorf("validate: %w", err)
	}
	report.AddLinkFailures(written.Failed)
	imp.stats.Record(PhaseValidate, time.Since(phaseStart))
	res.Report = report

	imp.stats.Record(PhaseTotal, time.Since(start))
	log.Info("import complete",
		"sections", written.Inserted,
		"link_failures", len(written.Failed),
		"violations", len(report.Violations),
		"duration_ms", time.Since(start).Milliseconds())
	return res, nil
}
