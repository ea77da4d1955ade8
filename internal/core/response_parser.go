// ABOUTME: ParseResponse splits raw model output into post body and trailing metadata
// ABOUTME: Two stages: bounded candidate scan from the end, then a per-key merge onto defaults
package core

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/harper/certpost/internal/models"
)

// metadataLookback is how many trailing lines may hold the metadata record
const metadataLookback = 3

// ParseResponse never fails: when no metadata line is found the whole text is
// the body and metadata falls back to defaults with fallbackShortName.
func ParseResponse(raw, fallbackShortName string) (string, models.Metadata) {
	raw = strings.TrimSpace(raw)
	lines := strings.Split(raw, "\n")
	defaults := models.DefaultMetadata(fallbackShortName)

	for _, idx := range metadataCandidates(lines) {
		meta, ok := decodeMetadata(lines[idx], defaults)
		if !ok {
			continue
		}
		meta.Category = models.CoerceCategory(meta.Category)
		return strings.TrimSpace(strings.Join(lines[:idx], "\n")), meta
	}

	return raw, defaults
}

// metadataCandidates returns indexes of the last few lines that look like a
// JSON object, nearest the end first
func metadataCandidates(lines []string) []int {
	var idxs []int
	stop := len(lines) - metadataLookback
	if stop < 0 {
		stop = 0
	}
	for i := len(lines) - 1; i >= stop; i-- {
		candidate := cleanCandidate(lines[i])
		if strings.HasPrefix(candidate, "{") && strings.HasSuffix(candidate, "}") {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func cleanCandidate(line string) string {
	return strings.Trim(strings.TrimSpace(line), "`")
}

// decodeMetadata merges the candidate onto a copy of defaults key by key. A key
// whose value has the wrong type keeps its default; unknown keys are ignored.
func decodeMetadata(line string, defaults models.Metadata) (models.Metadata, bool) {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader([]byte(cleanCandidate(line))))
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return defaults, false
	}
	if dec.More() {
		return defaults, false
	}

	meta := defaults
	if v, ok := stringField(fields, "category"); ok {
		meta.Category = models.Category(v)
	}
	if v, ok := stringField(fields, "short_name"); ok {
		meta.ShortName = v
	}
	if v, ok := stringField(fields, "confidence"); ok {
		meta.Confidence = models.Confidence(v)
	}
	if v, ok := stringField(fields, "flag_reason"); ok {
		meta.FlagReason = v
	}
	if v, ok := stringField(fields, "shape_used"); ok {
		meta.ShapeUsed = models.Shape(v)
	}
	return meta, true
}

// stringField reports the string value of key; null and non-string values are skipped
func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var v *string
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return "", false
	}
	return *v, true
}
