// Package reconcile decides what to do with a freshly extracted task when
// the destination list may already contain it. Candidate duplicates are
// found by fuzzy name matching; a matched task is then field-compared so
// that only genuine changes (new due date, different assignees, new
// description content) trigger an update instead of a duplicate create.
package reconcile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gutfeelinglabs/taskpipe/internal/similarity"
)

const (
	// defaultNameThreshold is the minimum name similarity for two tasks
	// to be considered the same piece of work.
	defaultNameThreshold = 0.85

	// descriptionSameThreshold treats descriptions at or above this
	// similarity as carrying no new information.
	descriptionSameThreshold = 0.95
)

// Action is the reconciliation outcome for one task.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
)

// ExistingTask is a task already present in the destination list, as
// snapshotted by the task source.
type ExistingTask struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	DueDate     int64    `json:"due_date"`
	Assignees   []string `json:"assignees"`
	Status      string   `json:"status"`
	URL         string   `json:"url"`
}

// NewTask is the candidate task produced by extraction and classification.
type NewTask struct {
	Name        string
	Description string
	DueDate     int64
	Assignees   []string
}

// Changes records the field-level differences between a new task and the
// existing task it matched.
type Changes struct {
	HasChanges           bool
	DueDateChanged       bool
	AssigneeChanged      bool
	DescriptionDifferent bool

	OldDueDate     int64
	NewDueDate     int64
	OldAssignees   []string
	NewAssignees   []string
	OldDescription string
	NewDescription string
}

// SimilarTask pairs a duplicate candidate with its name similarity.
type SimilarTask struct {
	Task       ExistingTask
	Similarity float64
}

// Decision is the full reconciliation verdict for one task.
type Decision struct {
	Action     Action
	Existing   *ExistingTask
	Similarity float64
	Changes    Changes
}

// Reconciler matches new tasks against existing ones and derives update
// decisions.
type Reconciler struct {
	threshold float64
	sim       similarity.Func
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithThreshold overrides the name-similarity threshold.
func WithThreshold(threshold float64) Option {
	return func(r *Reconciler) { r.threshold = threshold }
}

// WithSimilarity overrides the similarity function.
func WithSimilarity(fn similarity.Func) Option {
	return func(r *Reconciler) {
		if fn != nil {
			r.sim = fn
		}
	}
}

// NewReconciler creates a reconciler with the default threshold and
// similarity function unless overridden.
func NewReconciler(logger *zap.Logger, opts ...Option) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reconciler{
		threshold: defaultNameThreshold,
		sim:       similarity.Ratio,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindSimilar returns the existing tasks whose names clear the similarity
// threshold, most similar first.
func (r *Reconciler) FindSimilar(name string, existing []ExistingTask) []SimilarTask {
	var matches []SimilarTask
	for _, task := range existing {
		score := r.sim(name, task.Name)
		if score >= r.threshold {
			matches = append(matches, SimilarTask{Task: task, Similarity: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}

// Compare diffs a new task against an existing one. A due date only counts
// as changed when the new task actually carries one; assignees compare as
// unordered sets; a description only counts when it is non-empty and
// dissimilar enough to add information.
func (r *Reconciler) Compare(newTask NewTask, existing ExistingTask) Changes {
	var changes Changes

	if newTask.DueDate != 0 && newTask.DueDate != existing.DueDate {
		changes.DueDateChanged = true
		changes.HasChanges = true
		changes.OldDueDate = existing.DueDate
		changes.NewDueDate = newTask.DueDate
	}

	if !sameAssigneeSet(newTask.Assignees, existing.Assignees) {
		changes.AssigneeChanged = true
		changes.HasChanges = true
		changes.OldAssignees = existing.Assignees
		changes.NewAssignees = newTask.Assignees
	}

	newDesc := strings.TrimSpace(newTask.Description)
	oldDesc := strings.TrimSpace(existing.Description)
	if newDesc != "" && newDesc != oldDesc {
		if r.sim(newDesc, oldDesc) < descriptionSameThreshold {
			changes.DescriptionDifferent = true
			changes.HasChanges = true
			changes.OldDescription = oldDesc
			changes.NewDescription = newDesc
		}
	}

	return changes
}

// Decide reconciles one new task against the existing snapshot: no match
// means create, a match with changes means update, a match without changes
// means skip.
func (r *Reconciler) Decide(newTask NewTask, existing []ExistingTask) Decision {
	matches := r.FindSimilar(newTask.Name, existing)
	if len(matches) == 0 {
		return Decision{Action: ActionCreate}
	}

	best := matches[0]
	changes := r.Compare(newTask, best.Task)

	r.logger.Debug("duplicate candidate found",
		zap.String("task", newTask.Name),
		zap.String("existing_id", best.Task.ID),
		zap.Float64("similarity", best.Similarity),
		zap.Bool("has_changes", changes.HasChanges))

	if !changes.HasChanges {
		return Decision{Action: ActionSkip, Existing: &best.Task, Similarity: best.Similarity}
	}
	return Decision{
		Action:     ActionUpdate,
		Existing:   &best.Task,
		Similarity: best.Similarity,
		Changes:    changes,
	}
}

// Summary renders the changes as a one-line human-readable string.
func Summary(changes Changes) string {
	if !changes.HasChanges {
		return "No changes detected"
	}

	var parts []string
	if changes.DueDateChanged {
		parts = append(parts, fmt.Sprintf("Due date: %s → %s",
			formatDue(changes.OldDueDate), formatDue(changes.NewDueDate)))
	}
	if changes.AssigneeChanged {
		parts = append(parts, "Assignee changed")
	}
	if changes.DescriptionDifferent {
		parts = append(parts, "Description has new information")
	}
	return strings.Join(parts, " | ")
}

// UpdateComment builds the comment posted on an updated task, naming the
// source meeting and the fields that changed.
func (r *Reconciler) UpdateComment(meetingTitle string, changes Changes) string {
	parts := []string{
		fmt.Sprintf("Updated from meeting: **%s**", meetingTitle),
		fmt.Sprintf("Date: %s", r.now().Format("2006-01-02 15:04")),
	}
	if changes.DueDateChanged {
		parts = append(parts, fmt.Sprintf("Due date changed: %s → %s",
			formatDue(changes.OldDueDate), formatDue(changes.NewDueDate)))
	}
	if changes.AssigneeChanged {
		parts = append(parts, "Assignee updated")
	}
	if changes.DescriptionDifferent {
		parts = append(parts, "New information added to description")
	}
	return strings.Join(parts, "\n")
}

// MergeDescriptions combines an existing description with the new one,
// keeping the old text intact and appending the new content under a
// separator. Near-identical descriptions keep the old text unchanged.
func (r *Reconciler) MergeDescriptions(oldDesc, newDesc string) string {
	if oldDesc == "" {
		return newDesc
	}
	if newDesc == "" {
		return oldDesc
	}
	if r.sim(oldDesc, newDesc) > descriptionSameThreshold {
		return oldDesc
	}
	return oldDesc + "\n\n---\nUpdated from new meeting notes:\n" + newDesc
}

func sameAssigneeSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

func formatDue(ms int64) string {
	if ms == 0 {
		return "None"
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}
