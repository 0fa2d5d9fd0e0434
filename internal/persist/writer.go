// Package persist writes an assembled section tree to the store in two
// phases: unlinked rows first, then parent links and materialized paths.
package persist

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/bylawgest/internal/doctree"
	"github.com/dgallion1/bylawgest/internal/store"
)

const (
	DefaultBatchSize     = 50
	DefaultPipelineDepth = 4
)

// SectionStore is the storage the writer needs. *store.Store satisfies it.
type SectionStore interface {
	InsertSections(ctx context.Context, documentID string, sections []doctree.TreeSection) ([]store.Inserted, error)
	LinkSection(ctx context.Context, id int64, parentID *int64, pathIDs []int64, pathOrdinals []int) error
}

// RowResult records a section whose link update failed.
type RowResult struct {
	SectionID     int64  `json:"section_id"`
	DocumentOrder int    `json:"document_order"`
	Citation      string `json:"citation"`
	Err           error  `json:"-"`
	Error         string `json:"error"`
}

// Result is the outcome of a write. Sections holds every stored section
// with the links the writer computed, whether or not the link update
// reached the store; Failed lists those where it did not.
type Result struct {
	DocumentID string                     `json:"document_id"`
	Sections   []doctree.PersistedSection `json:"-"`
	Inserted   int                        `json:"inserted"`
	Linked     int                        `json:"linked"`
	Failed     []RowResult                `json:"failed"`
}

// OK reports whether every row was linked.
func (r *Result) OK() bool {
	return len(r.Failed) == 0
}

// Writer persists section trees.
type Writer struct {
	store         SectionStore
	BatchSize     int
	PipelineDepth int
	log           *slog.Logger
}

// NewWriter returns a Writer with default batch size and pipeline depth.
func NewWriter(s SectionStore, log *slog.Logger) *Writer {
	return &Writer{
		store:         s,
		BatchSize:     DefaultBatchSize,
		PipelineDepth: DefaultPipelineDepth,
		log:           log,
	}
}

// Write stores tree under documentID. Any phase-1 insert error aborts the
// write and is returned. Phase-2 link errors are logged and collected in
// Result.Failed; they never fail the call.
func (w *Writer) Write(ctx context.Context, documentID string, tree []doctree.TreeSection) (*Result, error) {
	log := w.log.With("doc_id", documentID)
	res := &Result{DocumentID: documentID, Failed: []RowResult{}}
	if len(tree) == 0 {
		return res, nil
	}

	ordered := slices.Clone(tree)
	slices.SortStableFunc(ordered, func(a, b doctree.TreeSection) int {
		return cmp.Compare(a.DocumentOrder, b.DocumentOrder)
	})

	ids, err := w.insert(ctx, documentID, ordered)
	if err != nil {
		return nil, err
	}
	res.Inserted = len(ids)
	log.Info("sections inserted", "count", len(ids))

	res.Sections = w.link(ctx, log, documentID, ordered, ids, res)
	res.Linked = len(ordered) - len(res.Failed)
	if len(res.Failed) > 0 {
		log.Warn("sections left unlinked", "failed", len(res.Failed), "linked", res.Linked)
	}
	return res, nil
}

// insert runs phase 1 and returns real ids indexed like sections.
func (w *Writer) insert(ctx context.Context, documentID string, sections []doctree.TreeSection) ([]int64, error) {
	size := w.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	depth := w.PipelineDepth
	if depth <= 0 {
		depth = 1
	}

	ids := make([]int64, len(sections))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(depth)

	for start := 0; start < len(sections); start += size {
		start := start
		end := min(start+size, len(sections))
		batch := sections[start:end]
		g.Go(func() error {
			inserted, err := w.store.InsertSections(gctx, documentID, batch)
			if err != nil {
				return fmt.Errorf("insert batch %d-%d: %w", batch[0].DocumentOrder, batch[len(batch)-1].DocumentOrder, err)
			}
			if len(inserted) != len(batch) {
				return fmt.Errorf("insert batch %d-%d: got %d ids for %d rows",
					batch[0].DocumentOrder, batch[len(batch)-1].DocumentOrder, len(inserted), len(batch))
			}
			byOrder := make(map[int]int64, len(inserted))
			for _, in := range inserted {
				byOrder[in.DocumentOrder] = in.ID
			}
			for i, sec := range batch {
				id, ok := byOrder[sec.DocumentOrder]
				if !ok {
					return fmt.Errorf("insert batch: no id for document order %d", sec.DocumentOrder)
				}
				ids[start+i] = id
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("phase 1: %w", err)
	}

	// Barrier: phase 2 needs every id.
	for i, id := range ids {
		if id == 0 {
			return nil, fmt.Errorf("phase 1: section at document order %d has no id", sections[i].DocumentOrder)
		}
	}
	return ids, nil
}

type frame struct {
	depth    int
	id       int64
	ids      []int64
	ordinals []int
}

// link runs phase 2. A stack of open ancestors gives each row its parent
// and path.
func (w *Writer) link(ctx context.Context, log *slog.Logger, documentID string, sections []doctree.TreeSection, ids []int64, res *Result) []doctree.PersistedSection {
	out := make([]doctree.PersistedSection, len(sections))
	var stack []frame

	for i, sec := range sections {
		for len(stack) > 0 && stack[len(stack)-1].depth >= sec.Depth {
			stack = stack[:len(stack)-1]
		}

		id := ids[i]
		var parentID *int64
		var pathIDs []int64
		var pathOrdinals []int
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			p := top.id
			parentID = &p
			pathIDs = append(slices.Clone(top.ids), id)
			pathOrdinals = append(slices.Clone(top.ordinals), sec.Ordinal)
		} else {
			pathIDs = []int64{id}
			pathOrdinals = []int{sec.Ordinal}
		}
		stack = append(stack, frame{depth: sec.Depth, id: id, ids: pathIDs, ordinals: pathOrdinals})

		out[i] = doctree.PersistedSection{
			TreeSection:     sec,
			ID:              id,
			DocumentID:      documentID,
			ParentSectionID: parentID,
			PathIDs:         pathIDs,
			PathOrdinals:    pathOrdinals,
		}

		if err := w.store.LinkSection(ctx, id, parentID, pathIDs, pathOrdinals); err != nil {
			log.Error("link section failed", "section_id", id, "citation", sec.Citation,
				"document_order", sec.DocumentOrder, "error", err)
			res.Failed = append(res.Failed, RowResult{
				SectionID:     id,
				DocumentOrder: sec.DocumentOrder,
				Citation:      sec.Citation,
				Err:           err,
				Error:         err.Error(),
			})
		}
	}
	return out
}
