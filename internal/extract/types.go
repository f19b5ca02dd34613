package extract

import (
	"strings"
	"time"
)

// Priority is the urgency estimate for an action item.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DueDate is a resolved due date. It always has a value: when no temporal
// phrase is found the reference date itself is used.
type DueDate struct {
	DateString string    `json:"date_string"` // "Month DD, YYYY"
	DueDateMS  int64     `json:"due_date_ms"` // epoch milliseconds
	Time       time.Time `json:"-"`
}

// ActionItem is a structured to-do extracted from one notes document.
// Task is the shortened display form; OriginalTask preserves the verbatim
// source line for descriptions and audit.
type ActionItem struct {
	Task         string   `json:"task"`
	OriginalTask string   `json:"original_task"`
	Assignee     string   `json:"assignee,omitempty"`
	Priority     Priority `json:"priority,omitempty"`
	Context      string   `json:"context,omitempty"`
	DueDate      DueDate  `json:"due_date"`
}

// Directory resolves a person's name as written in notes to a tracker
// identifier. Implementations report ok=false for unknown names.
type Directory interface {
	Resolve(name string) (id string, ok bool)
}

// MapDirectory is a Directory backed by a name -> identifier map.
// Lookup is case-insensitive and falls back to partial matching, so
// "Drew" resolves against a "drew gilbert" entry and vice versa.
type MapDirectory map[string]string

// Resolve implements Directory.
func (m MapDirectory) Resolve(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	lower := strings.ToLower(name)

	for key, id := range m {
		if strings.ToLower(key) == lower {
			return id, true
		}
	}
	for key, id := range m {
		k := strings.ToLower(key)
		if strings.Contains(k, lower) || strings.Contains(lower, k) {
			return id, true
		}
	}
	return "", false
}

// Config tunes the extraction heuristics. Zero values fall back to the
// defaults from DefaultConfig.
type Config struct {
	// KnownFirstNames are single first names recognized as assignees in
	// addition to capitalized full-name sequences.
	KnownFirstNames []string `json:"known_first_names"`

	// IgnoredAssignees are names never assigned tasks (lowercase match).
	IgnoredAssignees []string `json:"ignored_assignees"`

	// ContextKeywords are the domain terms used to match supporting
	// paragraphs from the Details section.
	ContextKeywords []string `json:"context_keywords"`

	// MinLineLength is the minimum length for a candidate action line.
	MinLineLength int `json:"min_line_length"`
}

// DefaultConfig returns the extraction defaults.
func DefaultConfig() Config {
	return Config{
		KnownFirstNames: []string{"drew", "art", "matt", "kato", "paula"},
		ContextKeywords: []string{
			"budget", "shot list", "production brief", "graphic", "outro card",
			"meeting", "assets", "deliverables", "brand", "references",
			"total wine", "bevmo", "client", "agency", "location", "tonight",
			"monday", "today", "tomorrow", "week", "deadline", "due",
		},
		MinLineLength: 15,
	}
}
