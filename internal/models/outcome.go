// ABOUTME: Results of running the pipeline over one document or a batch
// ABOUTME: Flags collect low-confidence posts for the end-of-run summary
package models

import "time"

// Flag marks an archived post that needs a human look
type Flag struct {
	OriginalFilename string `json:"original_filename"`
	FlagReason       string `json:"flag_reason"`
	DestinationPath  string `json:"destination_path"`
}

// ArchiveOutcome describes where a document ended up
type ArchiveOutcome struct {
	RunID       string    `json:"run_id"`
	Document    Document  `json:"document"`
	Destination string    `json:"destination"`
	PostPath    string    `json:"post_path"`
	Body        string    `json:"body"`
	NotesMoved  bool      `json:"notes_moved"`
	Metadata    Metadata  `json:"metadata"`
	Flag        *Flag     `json:"flag,omitempty"`
	ArchivedAt  time.Time `json:"archived_at"`
}

// ArchiveRecord is written as metadata.json next to the post
type ArchiveRecord struct {
	RunID      string    `json:"run_id"`
	Source     string    `json:"source"`
	Notes      string    `json:"notes,omitempty"`
	Metadata   Metadata  `json:"metadata"`
	ArchivedAt time.Time `json:"archived_at"`
}

// DocumentFailure records a document that was left in the inbox
type DocumentFailure struct {
	Document Document
	Err      error
}

// BatchReport aggregates a sequential run over several documents
type BatchReport struct {
	Archived []*ArchiveOutcome
	Failed   []DocumentFailure
	Flags    []Flag
}

// Add records the outcome of one document
func (r *BatchReport) Add(outcome *ArchiveOutcome) {
	r.Archived = append(r.Archived, outcome)
	if outcome.Flag != nil {
		r.Flags = append(r.Flags, *outcome.Flag)
	}
}

// Fail records a document that could not be processed
func (r *BatchReport) Fail(doc Document, err error) {
	r.Failed = append(r.Failed, DocumentFailure{Document: doc, Err: err})
}
