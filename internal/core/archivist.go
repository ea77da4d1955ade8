// ABOUTME: Archivist files a processed document, its notes and the generated post
// ABOUTME: Moves are journalled and undone in reverse if any later step fails
package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/harper/certpost/internal/models"
	"github.com/harper/certpost/internal/storage"
)

const (
	// PostFilename is the generated body inside each archive directory
	PostFilename = "post.md"
	// RecordFilename holds the metadata of the last run for the archive key
	RecordFilename = "metadata.json"
)

// Archivist moves documents from the inbox into <root>/<category>/<short_name>/
type Archivist struct {
	root  string
	move  func(src, dst string) error
	write func(path string, data []byte, perm os.FileMode) error
	now   func() time.Time
	newID func() string
}

// NewArchivist creates an archivist rooted at the done directory
func NewArchivist(root string) *Archivist {
	return &Archivist{
		root:  root,
		move:  moveFile,
		write: storage.WriteFileAtomic,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Root returns the archive root directory
func (a *Archivist) Root() string {
	return a.root
}

// Destination returns the archive directory for a document with the given metadata.
// Model output is untrusted, so the category is coerced and the short name slugged.
func (a *Archivist) Destination(doc models.Document, meta models.Metadata) string {
	name := Slugify(meta.ShortName)
	if name == "" {
		name = Slugify(doc.Stem)
	}
	if name == "" {
		name = "untitled"
	}
	return filepath.Join(a.root, string(models.CoerceCategory(meta.Category)), name)
}

// Archive moves doc (and notesPath, when non-empty) into the destination and writes the body.
// Files already at the destination under the same names are replaced only when every step
// succeeds. On failure the document and notes are returned to where they were and earlier
// archive contents are restored; if that is not possible the error wraps models.ErrSplitArchive.
func (a *Archivist) Archive(doc models.Document, notesPath, body string, meta models.Metadata) (*models.ArchiveOutcome, error) {
	dest := a.Destination(doc, meta)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, models.WrapError(models.ErrArchive, "create destination", err)
	}

	runID := a.newID()
	txn := &archiveJournal{move: a.move, write: a.write, suffix: ".prev-" + runID}
	if err := txn.moveInto(doc.Path, filepath.Join(dest, doc.Name)); err != nil {
		return nil, a.abort(txn, "move document", err)
	}

	notesName := ""
	if notesPath != "" {
		notesName = filepath.Base(notesPath)
		if err := txn.moveInto(notesPath, filepath.Join(dest, notesName)); err != nil {
			return nil, a.abort(txn, "move notes", err)
		}
	}

	postPath := filepath.Join(dest, PostFilename)
	if err := txn.writeInto(postPath, []byte(body), 0o644); err != nil {
		return nil, a.abort(txn, "write post", err)
	}

	archivedAt := a.now()
	record, err := json.MarshalIndent(models.ArchiveRecord{
		RunID:      runID,
		Source:     doc.Name,
		Notes:      notesName,
		Metadata:   meta,
		ArchivedAt: archivedAt,
	}, "", "  ")
	if err != nil {
		return nil, a.abort(txn, "encode record", err)
	}
	if err := txn.writeInto(filepath.Join(dest, RecordFilename), append(record, '\n'), 0o644); err != nil {
		return nil, a.abort(txn, "write record", err)
	}
	txn.commit()

	outcome := &models.ArchiveOutcome{
		RunID:       runID,
		Document:    doc,
		Destination: dest,
		PostPath:    postPath,
		Body:        body,
		NotesMoved:  notesName != "",
		Metadata:    meta,
		ArchivedAt:  archivedAt,
	}
	if meta.NeedsReview() {
		outcome.Flag = &models.Flag{
			OriginalFilename: doc.Name,
			FlagReason:       meta.FlagReason,
			DestinationPath:  dest,
		}
	}
	return outcome, nil
}

func (a *Archivist) abort(txn *archiveJournal, operation string, cause error) error {
	if rbErr := txn.rollback(); rbErr != nil {
		split := models.WrapError(models.ErrSplitArchive, "rollback", errors.Join(cause, rbErr))
		return models.WrapError(models.ErrArchive, operation, split)
	}
	return models.WrapError(models.ErrArchive, operation, cause)
}

// archiveJournal records every change made to the filesystem so it can be undone
// in reverse order. Files that would be overwritten are first moved aside.
type archiveJournal struct {
	move    func(src, dst string) error
	write   func(path string, data []byte, perm os.FileMode) error
	suffix  string
	undo    []func() error
	backups []string
}

// setAside renames an existing file at path out of the way
func (j *archiveJournal) setAside(path string) error {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	backup := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+j.suffix)
	if err := j.move(path, backup); err != nil {
		return fmt.Errorf("set aside %s: %w", path, err)
	}
	j.backups = append(j.backups, backup)
	j.undo = append(j.undo, func() error {
		if err := j.move(backup, path); err != nil {
			return fmt.Errorf("restore %s from %s: %w", path, backup, err)
		}
		return nil
	})
	return nil
}

func (j *archiveJournal) moveInto(src, dst string) error {
	if err := j.setAside(dst); err != nil {
		return err
	}
	if err := j.move(src, dst); err != nil {
		return err
	}
	j.undo = append(j.undo, func() error {
		if err := j.move(dst, src); err != nil {
			return fmt.Errorf("restore %s from %s: %w", src, dst, err)
		}
		return nil
	})
	return nil
}

func (j *archiveJournal) writeInto(path string, data []byte, perm os.FileMode) error {
	if err := j.setAside(path); err != nil {
		return err
	}
	j.undo = append(j.undo, func() error {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		return nil
	})
	return j.write(path, data, perm)
}

func (j *archiveJournal) rollback() error {
	var errs []error
	for i := len(j.undo) - 1; i >= 0; i-- {
		if err := j.undo[i](); err != nil {
			errs = append(errs, err)
		}
	}
	j.undo = nil
	j.backups = nil
	return errors.Join(errs...)
}

// commit drops the set-aside copies once the archive is complete
func (j *archiveJournal) commit() {
	for _, backup := range j.backups {
		_ = os.Remove(backup)
	}
	j.undo = nil
	j.backups = nil
}

// moveFile renames src to dst, copying across filesystems when rename cannot
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return err
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(dst, data, info.Mode().Perm()); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

// Slugify lowercases s and reduces it to [a-z0-9-], collapsing runs of anything else
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
