// ABOUTME: Tests for RotationTracker append-and-truncate behavior
// ABOUTME: Verifies the history bound and that empty shapes are ignored

package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/harper/certpost/internal/models"
	"github.com/harper/certpost/internal/storage"
)

func TestRotationTracker_EmptyHistory(t *testing.T) {
	rt := NewRotationTracker(storage.NewMemoryShapeStore())

	recent, err := rt.Recent()
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("Recent() = %v, want empty", recent)
	}
	if rt.Limit() != 4 {
		t.Errorf("Limit() = %d, want 4", rt.Limit())
	}
}

func TestRotationTracker_Bound(t *testing.T) {
	rt := NewRotationTracker(storage.NewMemoryShapeStore())

	var recorded []models.Shape
	for i := 0; i < 12; i++ {
		shape := models.Shapes[i%len(models.Shapes)]
		if i%3 == 0 {
			shape = models.Shape(fmt.Sprintf("custom-%d", i))
		}
		if err := rt.Record(shape); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		recorded = append(recorded, shape)

		recent, err := rt.Recent()
		if err != nil {
			t.Fatalf("Recent() error = %v", err)
		}
		if len(recent) > 4 {
			t.Fatalf("after %d records len(Recent()) = %d, want <= 4", i+1, len(recent))
		}

		start := len(recorded) - 4
		if start < 0 {
			start = 0
		}
		if diff := cmp.Diff(recorded[start:], recent); diff != "" {
			t.Fatalf("after %d records Recent() mismatch (-want +got):\n%s", i+1, diff)
		}
	}
}

func TestRotationTracker_RecordEmptyIsNoop(t *testing.T) {
	store := storage.NewMemoryShapeStore(string(models.ShapeInsight))
	rt := NewRotationTracker(store)

	for _, s := range []models.Shape{"", "   ", "\n"} {
		if err := rt.Record(s); err != nil {
			t.Fatalf("Record(%q) error = %v", s, err)
		}
	}

	recent, _ := rt.Recent()
	if diff := cmp.Diff([]models.Shape{models.ShapeInsight}, recent); diff != "" {
		t.Errorf("Recent() mismatch (-want +got):\n%s", diff)
	}
}

func TestRotationTracker_DoesNotValidate(t *testing.T) {
	rt := NewRotationTracker(storage.NewMemoryShapeStore())

	if err := rt.Record("Not A Real Shape"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	recent, _ := rt.Recent()
	if len(recent) != 1 || recent[0] != "Not A Real Shape" {
		t.Errorf("Recent() = %v, want [Not A Real Shape]", recent)
	}
}

func TestRotationTracker_TruncatesOversizedRecord(t *testing.T) {
	store := storage.NewMemoryShapeStore("a", "b", "c", "d", "e", "f")
	rt := NewRotationTracker(store)

	recent, err := rt.Recent()
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	want := []models.Shape{"c", "d", "e", "f"}
	if diff := cmp.Diff(want, recent); diff != "" {
		t.Errorf("Recent() mismatch (-want +got):\n%s", diff)
	}
}

func TestRotationTracker_Reset(t *testing.T) {
	rt := NewRotationTracker(storage.NewMemoryShapeStore("a", "b"))

	if err := rt.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	recent, _ := rt.Recent()
	if len(recent) != 0 {
		t.Errorf("Recent() = %v, want empty after Reset()", recent)
	}
}

func TestRotationTracker_FileBackedSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), storage.DefaultShapeFile)

	first := NewRotationTracker(storage.NewFileShapeStore(path))
	if err := first.Record(models.ShapeScene); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	second := NewRotationTracker(storage.NewFileShapeStore(path))
	recent, err := second.Recent()
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if diff := cmp.Diff([]models.Shape{models.ShapeScene}, recent); diff != "" {
		t.Errorf("Recent() mismatch (-want +got):\n%s", diff)
	}
}

type failingShapeStore struct{ err error }

func (f failingShapeStore) Load() ([]string, error) { return nil, f.err }
func (f failingShapeStore) Save([]string) error     { return f.err }

func TestRotationTracker_StoreErrors(t *testing.T) {
	boom := errors.New("disk gone")
	rt := NewRotationTracker(failingShapeStore{err: boom})

	if _, err := rt.Recent(); !errors.Is(err, boom) {
		t.Errorf("Recent() error = %v, want %v", err, boom)
	}
	if err := rt.Record(models.ShapeFact); !errors.Is(err, boom) {
		t.Errorf("Record() error = %v, want %v", err, boom)
	}
}
