package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/bylawgest/internal/parser"
)

// PageExtractor fetches an online document. *parser.NotionExtractor
// satisfies it.
type PageExtractor interface {
	ExtractPage(ctx context.Context, pageID string) (*parser.Extraction, error)
}

// Worker processes a single document job.
type Worker struct {
	importer *Importer
	notion   PageExtractor
	opts     parser.Options
	log      *slog.Logger
}

func NewWorker(importer *Importer, notion PageExtractor, opts parser.Options, log *slog.Logger) *Worker {
	return &Worker{
		importer: importer,
		notion:   notion,
		opts:     opts,
		log:      log,
	}
}

// Process runs extraction and import for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	// Phase 1: Extract
	job.SetStatus(StatusExtracting, "extracting")
	start := time.Now()
	ex, err := w.extract(ctx, job)
	if err != nil {
		log.Error("extract failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	job.releaseFileData()
	w.importer.Stats().Record(PhaseExtract, time.Since(start))

	title := job.Title
	if title == "" {
		title = ex.Title
	}
	if title == "" {
		title = job.Filename
	}
	source := "upload"
	if job.NotionPageID != "" {
		source = "notion:" + job.NotionPageID
	}

	// Phases 2-4: structure, persist, validate.
	res, err := w.importer.Import(ctx, ImportRequest{
		DocumentID: job.DocID,
		Title:      title,
		Filename:   job.Filename,
		Source:     source,
		Text:       ex.Text,
		Force:      job.Force,
		OnPhase: func(s JobStatus) {
			job.SetStatus(s, string(s))
		},
	})
	if res != nil {
		job.SetDocument(res.Document.ID, res.ContentHash)
		if res.Structure != nil {
			job.SetParsed(res.Structure.Parsed, len(res.Structure.Dedup.Dropped))
		}
	}
	if err != nil {
		log.Error("import failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, job.Snapshot().Phase)
		return
	}

	if res.Duplicate {
		job.SetDuplicateOf(res.Document.ID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	job.SetPersisted(res.Write.Inserted, len(res.Write.Failed))
	for _, row := range res.Write.Failed {
		job.AddError(fmt.Sprintf("link %s (order %d): %s", row.Citation, row.DocumentOrder, row.Error))
	}
	job.SetViolations(len(res.Report.Violations))

	if !res.Report.OK() {
		log.Warn("document has structural violations", "violations", len(res.Report.Violations))
		job.SetStatus(StatusCompletedWithViolations, "done")
		return
	}
	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) extract(ctx context.Context, job *Job) (*parser.Extraction, error) {
	if job.NotionPageID != "" {
		if w.notion == nil {
			return nil, fmt.Errorf("notion import is not configured")
		}
		return w.notion.ExtractPage(ctx, job.NotionPageID)
	}
	p, err := parser.ForFile(job.Filename, w.opts)
	if err != nil {
		return nil, err
	}
	return p.Extract(bytes.NewReader(job.FileData()), job.Filename)
}
