package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of an import job.
type JobStatus string

const (
	StatusQueued                  JobStatus = "queued"
	StatusExtracting              JobStatus = "extracting"
	StatusStructuring             JobStatus = "structuring"
	StatusPersisting              JobStatus = "persisting"
	StatusValidating              JobStatus = "validating"
	StatusCompleted               JobStatus = "completed"
	StatusCompletedWithViolations JobStatus = "completed_with_violations"
	StatusFailed                  JobStatus = "failed"
	StatusDupSkipped              JobStatus = "duplicate_skipped"
)

// Job tracks the state of a single document import.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`
	Force    bool      `json:"force"`

	// NotionPageID selects the Notion extractor instead of file bytes.
	NotionPageID string `json:"notion_page_id,omitempty"`

	Progress Progress `json:"progress"`

	ContentHash   string    `json:"content_hash,omitempty"`
	ExistingDocID string    `json:"existing_doc_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	SectionsParsed    int      `json:"sections_parsed"`
	DuplicatesDropped int      `json:"duplicates_dropped"`
	SectionsPersisted int      `json:"sections_persisted"`
	LinkFailures      int      `json:"link_failures"`
	Violations        int      `json:"violations"`
	Errors            []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetParsed records segmenter and dedup counts.
func (j *Job) SetParsed(parsed, dropped int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsParsed = parsed
	j.Progress.DuplicatesDropped = dropped
	j.UpdatedAt = time.Now()
}

// SetPersisted records writer counts.
func (j *Job) SetPersisted(persisted, linkFailures int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsPersisted = persisted
	j.Progress.LinkFailures = linkFailures
	j.UpdatedAt = time.Now()
}

// SetViolations records the validator's finding count.
func (j *Job) SetViolations(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Violations = n
	j.UpdatedAt = time.Now()
}

// SetDocument records the stored document id and content hash.
func (j *Job) SetDocument(docID, contentHash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.DocID = docID
	j.ContentHash = contentHash
	j.UpdatedAt = time.Now()
}

// SetDuplicateOf records the document an import duplicated.
func (j *Job) SetDuplicateOf(docID string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ExistingDocID = docID
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// releaseFileData drops the upload once it has been extracted.
func (j *Job) releaseFileData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID            string    `json:"job_id"`
	DocID         string    `json:"doc_id"`
	Status        JobStatus `json:"status"`
	Phase         string    `json:"phase"`
	Filename      string    `json:"filename"`
	Title         string    `json:"title"`
	NotionPageID  string    `json:"notion_page_id,omitempty"`
	ContentHash   string    `json:"content_hash,omitempty"`
	ExistingDocID string    `json:"existing_doc_id,omitempty"`
	Progress      Progress  `json:"progress"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	progress := j.Progress
	progress.Errors = errs
	return JobSnapshot{
		ID:            j.ID,
		DocID:         j.DocID,
		Status:        j.Status,
		Phase:         j.Phase,
		Filename:      j.Filename,
		Title:         j.Title,
		NotionPageID:  j.NotionPageID,
		ContentHash:   j.ContentHash,
		ExistingDocID: j.ExistingDocID,
		Progress:      progress,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
