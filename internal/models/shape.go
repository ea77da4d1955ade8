// ABOUTME: Post shapes that govern paragraph ordering of a generated post
// ABOUTME: The catalog is fixed; rotation history keeps one fewer than the catalog size
package models

// Shape names a structural template for a post (e.g. "Insight → Context → Detail → CTA")
type Shape string

const (
	ShapeInsight  Shape = "Insight → Context → Detail → CTA"
	ShapeQuestion Shape = "Question → Story → Answer → Takeaway"
	ShapeContrast Shape = "Contrast → Detail → Reflection"
	ShapeScene    Shape = "Scene → Zoom in → Wider lesson"
	ShapeFact     Shape = "Fact → Personal connection → Forward-looking"
)

// Shapes is the full catalog in prompt order
var Shapes = []Shape{
	ShapeInsight,
	ShapeQuestion,
	ShapeContrast,
	ShapeScene,
	ShapeFact,
}

// RecentShapeLimit is how many recently used shapes are remembered.
// One less than the catalog so at least one shape is always allowed next.
var RecentShapeLimit = len(Shapes) - 1

// IsValid reports whether the shape is part of the catalog
func (s Shape) IsValid() bool {
	for _, known := range Shapes {
		if s == known {
			return true
		}
	}
	return false
}

func (s Shape) String() string {
	return string(s)
}
