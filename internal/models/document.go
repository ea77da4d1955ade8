// ABOUTME: Document is a single certificate waiting in the inbox
// ABOUTME: Notes for a document live beside it as <stem>.notes.txt
package models

import (
	"path/filepath"
	"strings"
)

// NotesSuffix is appended to a document's stem to find its notes file
const NotesSuffix = ".notes.txt"

// Document identifies one input artifact in the inbox
type Document struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Stem     string `json:"stem"`
	Ext      string `json:"ext"`
	MimeType string `json:"mime_type"`
}

// NewDocument builds a Document from a file path and its mime type
func NewDocument(path, mimeType string) Document {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	return Document{
		Path:     path,
		Name:     name,
		Stem:     strings.TrimSuffix(name, ext),
		Ext:      strings.ToLower(ext),
		MimeType: mimeType,
	}
}

// NotesName returns the filename of the sibling notes file
func (d Document) NotesName() string {
	return d.Stem + NotesSuffix
}

// NotesPath returns where the sibling notes file would live
func (d Document) NotesPath() string {
	return filepath.Join(filepath.Dir(d.Path), d.NotesName())
}
