// ABOUTME: Pipeline runs one document through prompt, model, parser and archive
// ABOUTME: Batches are strictly sequential; a failed document stays in the inbox
package core

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/harper/certpost/internal/intake"
	"github.com/harper/certpost/internal/llm"
	"github.com/harper/certpost/internal/models"
	"go.uber.org/zap"
)

// NotesFunc resolves the notes used when prompting for doc
type NotesFunc func(ctx context.Context, doc models.Document) (string, error)

// ObserveFunc is told about every document a batch finishes, archived or not
type ObserveFunc func(doc models.Document, outcome *models.ArchiveOutcome, err error)

// FileNotes reads notes from the sibling notes file only
func FileNotes(_ context.Context, doc models.Document) (string, error) {
	notes, _, err := intake.ReadNotes(doc)
	return notes, err
}

// Pipeline wires the generation components together
type Pipeline struct {
	tracker   *RotationTracker
	assembler *PromptAssembler
	generator llm.Generator
	archivist *Archivist
	logger    *zap.Logger
	readFile  func(string) ([]byte, error)
}

// NewPipeline creates a pipeline; logger may be nil
func NewPipeline(tracker *RotationTracker, assembler *PromptAssembler, generator llm.Generator, archivist *Archivist, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		tracker:   tracker,
		assembler: assembler,
		generator: generator,
		archivist: archivist,
		logger:    logger,
		readFile:  os.ReadFile,
	}
}

// Process generates a post for doc and archives it. Until archival starts the
// document is never touched, so any earlier error leaves it in the inbox.
func (p *Pipeline) Process(ctx context.Context, doc models.Document, notes, tone string) (*models.ArchiveOutcome, error) {
	log := p.logger.With(zap.String("document", doc.Name))

	recent, err := p.tracker.Recent()
	if err != nil {
		return nil, err
	}

	prompt, err := p.assembler.Build(doc, notes, tone, recent)
	if err != nil {
		return nil, err
	}

	data, err := p.readFile(doc.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, models.WrapError(models.ErrDocumentNotFound, "read document", err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", doc.Name, err)
	}

	log.Debug("generating post",
		zap.String("model", p.generator.Model()),
		zap.String("mime_type", doc.MimeType),
		zap.Int("recent_shapes", len(recent)),
		zap.Bool("has_notes", notes != ""))

	raw, err := p.generator.Generate(ctx, llm.Request{
		SystemPrompt: prompt.System,
		UserPrompt:   prompt.User,
		Document:     data,
		MimeType:     doc.MimeType,
		Filename:     doc.Name,
	})
	if err != nil {
		return nil, models.WrapError(models.ErrInference, "generate", err)
	}

	body, meta := ParseResponse(raw, doc.Stem)

	if err := p.tracker.Record(meta.ShapeUsed); err != nil {
		log.Warn("rotation history not updated", zap.Error(err))
	}

	outcome, err := p.archivist.Archive(doc, intake.NotesFile(doc), body, meta)
	if err != nil {
		return nil, err
	}

	log.Info("archived",
		zap.String("run_id", outcome.RunID),
		zap.String("category", string(meta.Category)),
		zap.String("shape", string(meta.ShapeUsed)),
		zap.String("confidence", string(meta.Confidence)),
		zap.String("destination", outcome.Destination))
	return outcome, nil
}

// ProcessAll runs docs in order. A failure is recorded and the batch continues;
// cancellation stops the batch between documents.
func (p *Pipeline) ProcessAll(ctx context.Context, docs []models.Document, tone string, notesFor NotesFunc, observe ObserveFunc) *models.BatchReport {
	if notesFor == nil {
		notesFor = FileNotes
	}

	report := &models.BatchReport{}
	for _, doc := range docs {
		if ctx.Err() != nil {
			p.logger.Info("batch interrupted", zap.Int("remaining", len(docs)-len(report.Archived)-len(report.Failed)))
			break
		}

		outcome, err := p.processOne(ctx, doc, tone, notesFor)
		if err != nil {
			p.logger.Error("document failed", zap.String("document", doc.Name), zap.Error(err))
			report.Fail(doc, err)
		} else {
			report.Add(outcome)
		}

		if observe != nil {
			observe(doc, outcome, err)
		}
	}
	return report
}

func (p *Pipeline) processOne(ctx context.Context, doc models.Document, tone string, notesFor NotesFunc) (*models.ArchiveOutcome, error) {
	notes, err := notesFor(ctx, doc)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, doc, notes, tone)
}
