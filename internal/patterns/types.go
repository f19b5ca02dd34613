package patterns

// Destination is a bucket in the external tracker hierarchy
// (space → folder → list). A destination used for task creation must carry
// a non-empty ListID; alias matches surface an unresolved ListID that the
// caller resolves against the live hierarchy.
type Destination struct {
	SpaceName  string `json:"space_name,omitempty"`
	FolderName string `json:"folder_name,omitempty"`
	ListName   string `json:"list_name,omitempty"`
	ListID     string `json:"list_id,omitempty"`
}

// Resolved reports whether the destination can be used for task creation.
func (d Destination) Resolved() bool {
	return d.ListID != ""
}

// Example records one confirming occurrence of a pattern.
type Example struct {
	MeetingTitle string `json:"meeting_title"`
	Date         string `json:"date"`
	Context      string `json:"context,omitempty"`
}

// ProjectOdds is a candidate project with an observed probability, used by
// person patterns and meeting-level weak suggestions.
type ProjectOdds struct {
	Destination Destination `json:"destination"`
	Probability float64     `json:"probability"`
}

// Entry is one learned pattern: a matching key (held by the enclosing
// map), a destination, a confidence in [0,1], and accumulated examples.
type Entry struct {
	Destination Destination `json:"destination"`
	Confidence  float64     `json:"confidence"`
	LearnedFrom string      `json:"learned_from,omitempty"`

	// ContextRequired applies to task-level keyword patterns: at least
	// one listed word must appear in the combined task+context text for
	// the pattern to fire.
	ContextRequired []string `json:"context_required,omitempty"`

	// LikelyProjects applies to person patterns and to meeting-level
	// title patterns used as weak per-task suggestions.
	LikelyProjects []ProjectOdds `json:"likely_projects,omitempty"`

	Examples []Example `json:"examples,omitempty"`
	Notes    string    `json:"notes,omitempty"`
}

// TaskPatterns holds the task-level pattern maps.
type TaskPatterns struct {
	ProjectAliases  map[string]*Entry `json:"project_aliases"`
	KeywordPatterns map[string]*Entry `json:"keyword_patterns"`
	PersonPatterns  map[string]*Entry `json:"person_patterns"`
}

// PatternSet holds every learned pattern, keyed by normalized phrase
// (title patterns), "+"-joined keyword or participant sets, alias text, or
// person name.
type PatternSet struct {
	TitlePatterns       map[string]*Entry `json:"title_patterns"`
	KeywordPatterns     map[string]*Entry `json:"keyword_patterns"`
	ParticipantPatterns map[string]*Entry `json:"participant_patterns"`
	ProjectAliases      map[string]*Entry `json:"project_aliases"`
	TaskLevel           TaskPatterns      `json:"task_level"`
}

// Statistics tracks pattern usage across runs.
type Statistics struct {
	TotalPatternsLearned   int    `json:"total_patterns_learned"`
	SuccessfulApplications int    `json:"successful_applications"`
	CorrectionsApplied     int    `json:"corrections_applied"`
	AccuracyImprovement    string `json:"accuracy_improvement"`
}

// Document is the persisted pattern database.
type Document struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"last_updated"`
	Patterns    PatternSet `json:"patterns"`
	Statistics  Statistics `json:"statistics"`
}

// Kind names one of the pattern maps for correction recording.
type Kind string

const (
	KindTitle       Kind = "title_patterns"
	KindKeyword     Kind = "keyword_patterns"
	KindParticipant Kind = "participant_patterns"
	KindAlias       Kind = "project_aliases"
	KindTaskAlias   Kind = "task_level/project_aliases"
	KindTaskKeyword Kind = "task_level/keyword_patterns"
	KindTaskPerson  Kind = "task_level/person_patterns"
)
