// ABOUTME: RotationTracker remembers the most recently used post shapes
// ABOUTME: Append-and-truncate log over an injectable store; it does not enforce anything
package core

import (
	"fmt"
	"strings"

	"github.com/harper/certpost/internal/models"
)

// ShapeStore persists the raw rotation history, oldest first
type ShapeStore interface {
	Load() ([]string, error)
	Save(shapes []string) error
}

// RotationTracker records which shapes were used recently so the prompt can forbid them
type RotationTracker struct {
	store ShapeStore
	limit int
}

// NewRotationTracker creates a tracker keeping models.RecentShapeLimit entries
func NewRotationTracker(store ShapeStore) *RotationTracker {
	return NewRotationTrackerWithLimit(store, models.RecentShapeLimit)
}

// NewRotationTrackerWithLimit creates a tracker with a custom history length
func NewRotationTrackerWithLimit(store ShapeStore, limit int) *RotationTracker {
	if limit < 1 {
		limit = 1
	}
	return &RotationTracker{store: store, limit: limit}
}

// Limit returns the maximum history length
func (rt *RotationTracker) Limit() int {
	return rt.limit
}

// Recent returns the recorded shapes, most recent last, at most Limit entries
func (rt *RotationTracker) Recent() ([]models.Shape, error) {
	raw, err := rt.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to read rotation history: %w", err)
	}

	raw = rt.truncate(raw)
	shapes := make([]models.Shape, 0, len(raw))
	for _, s := range raw {
		shapes = append(shapes, models.Shape(s))
	}
	return shapes, nil
}

// Record appends shape to the history and drops the oldest entries beyond Limit.
// An empty shape is ignored so an unreported generation never corrupts the history.
func (rt *RotationTracker) Record(shape models.Shape) error {
	value := strings.TrimSpace(string(shape))
	if value == "" {
		return nil
	}

	raw, err := rt.store.Load()
	if err != nil {
		return fmt.Errorf("failed to read rotation history: %w", err)
	}

	raw = rt.truncate(append(raw, value))
	if err := rt.store.Save(raw); err != nil {
		return fmt.Errorf("failed to save rotation history: %w", err)
	}
	return nil
}

// Reset clears the history
func (rt *RotationTracker) Reset() error {
	if err := rt.store.Save(nil); err != nil {
		return fmt.Errorf("failed to reset rotation history: %w", err)
	}
	return nil
}

func (rt *RotationTracker) truncate(raw []string) []string {
	if len(raw) <= rt.limit {
		return raw
	}
	return append([]string(nil), raw[len(raw)-rt.limit:]...)
}
