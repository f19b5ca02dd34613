package pipeline

import (
	"context"

	"github.com/gutfeelinglabs/taskpipe/internal/classify"
	"github.com/gutfeelinglabs/taskpipe/internal/extract"
	"github.com/gutfeelinglabs/taskpipe/internal/ledger"
	"github.com/gutfeelinglabs/taskpipe/internal/reconcile"
)

// Meeting is the input to a pipeline run: the notes document plus the
// identifiers used for idempotency.
type Meeting struct {
	DocID   string `json:"doc_id"`
	EmailID string `json:"email_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// TaskSource supplies the existing tasks of a destination list so planned
// tasks can be reconciled against them. Implementations may hit a live
// tracker or serve a local snapshot.
type TaskSource interface {
	ExistingTasks(ctx context.Context, listID string) ([]reconcile.ExistingTask, error)
}

// StaticSource is a TaskSource backed by an in-memory snapshot keyed by
// list ID. Used by the CLI (snapshot loaded from disk) and by tests.
type StaticSource map[string][]reconcile.ExistingTask

func (s StaticSource) ExistingTasks(_ context.Context, listID string) ([]reconcile.ExistingTask, error) {
	return s[listID], nil
}

// PlannedTask is one task the run wants created or updated.
type PlannedTask struct {
	Name        string
	Description string
	Assignee    string
	AssigneeID  string
	Priority    extract.Priority
	DueDate     extract.DueDate
	Tags        []string

	// Routed is false when no destination could be determined; the task
	// is surfaced for manual placement instead of being dropped.
	Routed      bool
	Destination classify.TaskMatch

	Action        reconcile.Action
	Existing      *reconcile.ExistingTask
	Changes       reconcile.Changes
	UpdateComment string

	// MergedDescription is set on updates whose description gained new
	// information.
	MergedDescription string
}

// Plan is the full outcome of planning one meeting.
type Plan struct {
	RunID   string
	Meeting Meeting

	// AlreadyProcessed short-circuits the run: Record holds the prior
	// ledger entry and Tasks is empty.
	AlreadyProcessed bool
	Record           ledger.Record

	MeetingMatch    classify.Match
	MeetingMatchOK  bool
	Tasks           []PlannedTask
}

// Creates returns the planned tasks that require creation.
func (p *Plan) Creates() []PlannedTask {
	return p.byAction(reconcile.ActionCreate)
}

// Updates returns the planned tasks that update an existing task.
func (p *Plan) Updates() []PlannedTask {
	return p.byAction(reconcile.ActionUpdate)
}

// Skips returns the planned tasks already present with nothing new.
func (p *Plan) Skips() []PlannedTask {
	return p.byAction(reconcile.ActionSkip)
}

func (p *Plan) byAction(action reconcile.Action) []PlannedTask {
	var out []PlannedTask
	for _, t := range p.Tasks {
		if t.Action == action {
			out = append(out, t)
		}
	}
	return out
}
