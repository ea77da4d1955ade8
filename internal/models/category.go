// ABOUTME: Archive categories for generated posts
// ABOUTME: Closed set; anything unrecognized collapses to CategoryOther
package models

// Category is the top-level archive folder a document is filed under
type Category string

const (
	CategoryClinical     Category = "clinical"
	CategoryCourses      Category = "courses-and-workshops"
	CategoryResearch     Category = "research-and-audits"
	CategoryVolunteering Category = "volunteering-and-leadership"
	CategoryOther        Category = "other"
)

// Categories lists every valid category
var Categories = []Category{
	CategoryClinical,
	CategoryCourses,
	CategoryResearch,
	CategoryVolunteering,
	CategoryOther,
}

// IsValid reports whether the category is in the closed set
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CoerceCategory returns c when valid, otherwise CategoryOther
func CoerceCategory(c Category) Category {
	if c.IsValid() {
		return c
	}
	return CategoryOther
}
