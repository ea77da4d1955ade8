// ABOUTME: Metadata the model reports on the last line of its response
// ABOUTME: Drives archive placement, rotation history and low-confidence flagging
package models

// Confidence is the model's own rating of how specific the post could be
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Metadata is the structured record trailing a generated post
type Metadata struct {
	Category   Category   `json:"category"`
	ShortName  string     `json:"short_name"`
	Confidence Confidence `json:"confidence"`
	FlagReason string     `json:"flag_reason"`
	ShapeUsed  Shape      `json:"shape_used"`
}

// DefaultMetadata is used when the model does not report metadata, and as
// the base that reported fields are merged onto
func DefaultMetadata(shortName string) Metadata {
	return Metadata{
		Category:   CategoryOther,
		ShortName:  shortName,
		Confidence: ConfidenceMedium,
	}
}

// NeedsReview reports whether the outcome should be surfaced for manual follow-up
func (m Metadata) NeedsReview() bool {
	return m.Confidence == ConfidenceLow
}
