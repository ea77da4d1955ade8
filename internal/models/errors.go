// ABOUTME: Error kinds shared across the pipeline
// ABOUTME: Wrap with WrapError and test with errors.Is
package models

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration    = errors.New("configuration error")
	ErrInference        = errors.New("inference failed")
	ErrArchive          = errors.New("archive failed")
	ErrSplitArchive     = errors.New("archive left split between inbox and destination")
	ErrDocumentNotFound = errors.New("document not found")
)

// WrapError preserves the error kind with operation context
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}
