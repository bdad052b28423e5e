package entity

import (
	"regexp"
	"strings"
)

var highlightPattern = regexp.MustCompile(`^[\w-]+$`)

// Highlight is a user-defined word pattern + color used to flag matching
// messages. The pattern is lowercased at construction; edits replace the
// value, never mutate it.
type Highlight struct {
	ID      string
	Pattern string
	Color   string
}

// NewHighlight builds a highlight with a generated id and a lowercased
// pattern.
func NewHighlight(pattern, color string) Highlight {
	return Highlight{
		ID:      NewID(),
		Pattern: strings.ToLower(pattern),
		Color:   color,
	}
}

// ValidateHighlight reports whether a candidate pattern is well-formed and
// case-insensitively unique among the existing highlights.
func ValidateHighlight(pattern string, existing []Highlight) bool {
	if !highlightPattern.MatchString(pattern) {
		return false
	}
	lower := strings.ToLower(pattern)
	for _, h := range existing {
		if h.Pattern == lower {
			return false
		}
	}
	return true
}

// Matches reports whether the message text contains the pattern,
// case-insensitively.
func (h Highlight) Matches(text string) bool {
	return strings.Contains(strings.ToLower(text), h.Pattern)
}

// HighlightRecord is the JSON-safe projection of a Highlight.
type HighlightRecord struct {
	ID      string `json:"id"`
	Pattern string `json:"pattern"`
	Color   string `json:"color,omitempty"`
}

// Serialize projects the highlight to its plain record.
func (h Highlight) Serialize() HighlightRecord {
	return HighlightRecord{ID: h.ID, Pattern: h.Pattern, Color: h.Color}
}
