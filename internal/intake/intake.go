// ABOUTME: Inbox scanning for certificates waiting to be turned into posts
// ABOUTME: Non-recursive, supported extensions only, sorted by filename
package intake

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/harper/certpost/internal/models"
)

// supportedTypes maps every accepted extension to the mime type sent to the model
var supportedTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
	".pdf":  "application/pdf",
}

// SupportedExtensions returns the accepted extensions, sorted
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedTypes))
	for ext := range supportedTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsSupported reports whether name has an accepted extension (case-insensitive)
func IsSupported(name string) bool {
	_, ok := supportedTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}

// MimeType guesses the mime type of name from its extension
func MimeType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t := mime.TypeByExtension(ext); t != "" {
		if media, _, err := mime.ParseMediaType(t); err == nil {
			return media
		}
	}
	if t, ok := supportedTypes[ext]; ok {
		return t
	}
	return "application/octet-stream"
}

// CompileMatch compiles a --match pattern; an empty pattern matches everything
func CompileMatch(pattern string) (glob.Glob, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid match pattern %q: %w", pattern, err)
	}
	return g, nil
}

// Scan lists the supported documents directly inside dir, sorted by filename.
// A missing directory yields no documents. match may be nil.
func Scan(dir string, match glob.Glob) ([]models.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read inbox: %w", err)
	}

	var docs []models.Document
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !IsSupported(name) {
			continue
		}
		if match != nil && !match.Match(name) {
			continue
		}
		docs = append(docs, models.NewDocument(filepath.Join(dir, name), MimeType(name)))
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// Find returns the named document from dir. Only the base name of name is used.
func Find(dir, name string) (models.Document, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return models.Document{}, models.WrapError(models.ErrDocumentNotFound, "find", fmt.Errorf("empty document name"))
	}

	path := filepath.Join(dir, base)
	info, err := os.Stat(path)
	if err != nil {
		return models.Document{}, models.WrapError(models.ErrDocumentNotFound, "find", fmt.Errorf("'%s' not found in inbox", base))
	}
	if !info.Mode().IsRegular() {
		return models.Document{}, models.WrapError(models.ErrDocumentNotFound, "find", fmt.Errorf("'%s' is not a file", base))
	}
	return models.NewDocument(path, MimeType(base)), nil
}

// ReadNotes returns the trimmed sibling notes for doc and whether the file exists.
// An empty or whitespace-only file exists but yields no notes.
func ReadNotes(doc models.Document) (string, bool, error) {
	data, err := os.ReadFile(doc.NotesPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read notes for %s: %w", doc.Name, err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// NotesFile returns the sibling notes path when the file exists, else ""
func NotesFile(doc models.Document) string {
	info, err := os.Stat(doc.NotesPath())
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return doc.NotesPath()
}
