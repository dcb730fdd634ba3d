// Package field defines the closed set of item fields a query can match on.
package field

// Field names a catalog item field that contributed to a match.
type Field string

// Matched field constants.
const (
	Title       Field = "title"
	Creator     Field = "creator"
	Subjects    Field = "subjects"
	Description Field = "description"
	// Popular marks results produced by the no-keyword fallback path,
	// which selects items by popularity/availability instead of matching.
	Popular Field = "popular"
)

// IsValid checks if the field is one of the supported values.
func (f Field) IsValid() bool {
	switch f {
	case Title, Creator, Subjects, Description, Popular:
		return true
	}
	return false
}
