// ABOUTME: Rotation history stored under a single charm KV key
// ABOUTME: Lets several machines share which post shapes were used recently
package charm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

// RotationKey holds the JSON-encoded rotation history, oldest first
const RotationKey = "rotation:recent"

// KV is the subset of the charm client the shape store needs
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// ShapeStore persists rotation history in charm KV
type ShapeStore struct {
	kv KV
}

// NewShapeStore creates a store over kv
func NewShapeStore(kv KV) *ShapeStore {
	return &ShapeStore{kv: kv}
}

// Load returns the stored history; a missing key is an empty history
func (s *ShapeStore) Load() ([]string, error) {
	data, err := s.kv.Get(RotationKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", RotationKey, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var shapes []string
	if err := json.Unmarshal(data, &shapes); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", RotationKey, err)
	}
	return shapes, nil
}

// Save replaces the stored history
func (s *ShapeStore) Save(shapes []string) error {
	if shapes == nil {
		shapes = []string{}
	}
	data, err := json.Marshal(shapes)
	if err != nil {
		return fmt.Errorf("failed to encode rotation history: %w", err)
	}
	return s.kv.Set(RotationKey, data)
}
