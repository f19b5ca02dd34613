package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gutfeelinglabs/taskpipe/internal/classify"
	"github.com/gutfeelinglabs/taskpipe/internal/extract"
	"github.com/gutfeelinglabs/taskpipe/internal/ledger"
	"github.com/gutfeelinglabs/taskpipe/internal/patterns"
	"github.com/gutfeelinglabs/taskpipe/internal/reconcile"
)

const (
	// maxTaskNameLength caps tracker task names; longer names are cut at
	// a phrase boundary.
	maxTaskNameLength = 80

	// minTruncatePos keeps boundary truncation from producing stub names.
	minTruncatePos = 40

	noContextPlaceholder = "No additional context available"

	defaultTag = "meeting-action-item"
)

// truncateBoundaries are preferred cut points, latest wins.
var truncateBoundaries = []string{" by ", " after ", " for ", " with ", " at ", " before ", " and ", " to "}

var assigneePrefixRe = regexp.MustCompile(`(?i)^(?:will|should|needs? to|must|can)\s+`)

// Service plans meeting runs.
type Service struct {
	extractor  *extract.Extractor
	classifier *classify.Classifier
	reconciler *reconcile.Reconciler
	ledger     *ledger.Ledger
	source     TaskSource
	team       map[string]string
	logger     *zap.Logger
}

// NewService wires the pipeline collaborators. The team map translates
// assignee names (case-insensitive) to tracker member IDs; tasks whose
// assignee is not in the map are created unassigned with the name noted
// in the description.
func NewService(
	extractor *extract.Extractor,
	classifier *classify.Classifier,
	reconciler *reconcile.Reconciler,
	led *ledger.Ledger,
	source TaskSource,
	team map[string]string,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	normalized := make(map[string]string, len(team))
	for name, id := range team {
		normalized[strings.ToLower(strings.TrimSpace(name))] = id
	}

	return &Service{
		extractor:  extractor,
		classifier: classifier,
		reconciler: reconciler,
		ledger:     led,
		source:     source,
		team:       normalized,
		logger:     logger,
	}
}

// Plan runs the full planning pass for one meeting. A meeting found in
// the ledger returns immediately with AlreadyProcessed set.
func (s *Service) Plan(ctx context.Context, meeting Meeting) (*Plan, error) {
	plan := &Plan{
		RunID:   uuid.NewString(),
		Meeting: meeting,
	}
	logger := s.logger.With(
		zap.String("run_id", plan.RunID),
		zap.String("meeting", meeting.Title))

	if rec, found := s.ledger.Lookup(meeting.DocID, meeting.EmailID); found {
		logger.Info("meeting already processed, skipping",
			zap.String("processed_date", rec.ProcessedDate),
			zap.Int("tasks_created", len(rec.TasksCreated)))
		plan.AlreadyProcessed = true
		plan.Record = rec
		return plan, nil
	}

	items := s.extractor.Extract(meeting.Content, meeting.Title)
	logger.Info("action items extracted", zap.Int("count", len(items)))
	if len(items) == 0 {
		return plan, nil
	}

	plan.MeetingMatch, plan.MeetingMatchOK = s.classifier.Classify(meeting.Title, meeting.Content)
	if plan.MeetingMatchOK {
		logger.Info("meeting destination",
			zap.String("list", plan.MeetingMatch.Destination.ListName),
			zap.String("source", plan.MeetingMatch.Source),
			zap.Float64("confidence", plan.MeetingMatch.Confidence))
	}

	suggestions := s.classifier.MeetingSuggestions(meeting.Title)
	tags := meetingTags(meeting.Title)

	snapshots := make(map[string][]reconcile.ExistingTask)

	for _, item := range items {
		task, err := s.planTask(ctx, item, meeting, plan, suggestions, tags, snapshots, logger)
		if err != nil {
			return nil, err
		}
		plan.Tasks = append(plan.Tasks, task)
	}

	logger.Info("plan ready",
		zap.Int("creates", len(plan.Creates())),
		zap.Int("updates", len(plan.Updates())),
		zap.Int("skips", len(plan.Skips())))
	return plan, nil
}

func (s *Service) planTask(
	ctx context.Context,
	item extract.ActionItem,
	meeting Meeting,
	plan *Plan,
	suggestions []patterns.ProjectOdds,
	tags []string,
	snapshots map[string][]reconcile.ExistingTask,
	logger *zap.Logger,
) (PlannedTask, error) {
	priority := item.Priority
	if priority == extract.PriorityNone {
		priority = extract.PriorityNormal
	}

	task := PlannedTask{
		Name:     truncateName(item.Task),
		Assignee: item.Assignee,
		Priority: priority,
		DueDate:  item.DueDate,
		Tags:     tags,
		Action:   reconcile.ActionCreate,
	}

	task.AssigneeID = s.resolveAssignee(item.Assignee)
	task.Description = buildDescription(item, task.AssigneeID, meeting.Title)

	dest, routed := s.classifier.ResolveTask(item.Task, item.Context, plan.MeetingMatch, plan.MeetingMatchOK, suggestions)
	task.Routed = routed
	task.Destination = dest
	if !routed {
		logger.Warn("no destination for task, leaving unrouted", zap.String("task", item.Task))
		return task, nil
	}

	listID := dest.Destination.ListID
	if listID == "" {
		logger.Warn("destination has no list id", zap.String("task", item.Task),
			zap.String("list", dest.Destination.ListName))
		return task, nil
	}

	existing, ok := snapshots[listID]
	if !ok {
		var err error
		existing, err = s.source.ExistingTasks(ctx, listID)
		if err != nil {
			return PlannedTask{}, fmt.Errorf("failed to load existing tasks for list %s: %w", listID, err)
		}
		snapshots[listID] = existing
	}

	newTask := reconcile.NewTask{
		Name:        task.Name,
		Description: task.Description,
		DueDate:     item.DueDate.DueDateMS,
	}
	if task.AssigneeID != "" {
		newTask.Assignees = []string{task.AssigneeID}
	}

	decision := s.reconciler.Decide(newTask, existing)
	task.Action = decision.Action
	task.Existing = decision.Existing
	task.Changes = decision.Changes

	if decision.Action == reconcile.ActionUpdate {
		task.UpdateComment = s.reconciler.UpdateComment(meeting.Title, decision.Changes)
		if decision.Changes.DescriptionDifferent {
			task.MergedDescription = s.reconciler.MergeDescriptions(
				decision.Changes.OldDescription, decision.Changes.NewDescription)
		}
		logger.Info("existing task will be updated",
			zap.String("task", task.Name),
			zap.String("existing_id", decision.Existing.ID),
			zap.String("changes", reconcile.Summary(decision.Changes)))
	}

	return task, nil
}

// Complete records a processed meeting in the ledger once the tracker
// client has created the planned tasks.
func (s *Service) Complete(plan *Plan, created []ledger.CreatedTask) error {
	if plan.AlreadyProcessed {
		return nil
	}
	return s.ledger.Append(ledger.Record{
		DocID:        plan.Meeting.DocID,
		MeetingTitle: plan.Meeting.Title,
		EmailID:      plan.Meeting.EmailID,
		TasksCreated: created,
	})
}

// resolveAssignee maps a name to a tracker member ID, case-insensitive,
// exact match first and then partial in either direction.
func (s *Service) resolveAssignee(name string) string {
	if name == "" {
		return ""
	}
	lower := strings.ToLower(strings.TrimSpace(name))
	if id, ok := s.team[lower]; ok {
		return id
	}
	for teamName, id := range s.team {
		if strings.Contains(teamName, lower) || strings.Contains(lower, teamName) {
			return id
		}
	}
	return ""
}

// buildDescription assembles the tracker description from the verbatim
// action item, the matched context, and the source meeting.
func buildDescription(item extract.ActionItem, assigneeID, meetingTitle string) string {
	original := item.OriginalTask
	if original == "" {
		original = item.Task
	}

	parts := []string{fmt.Sprintf("**Action Item:** %s", original), ""}

	// An assignee we could not resolve still gets named so the reader
	// can assign manually.
	if item.Assignee != "" && assigneeID == "" {
		parts = append(parts, fmt.Sprintf("**Mentioned Assignee:** %s", item.Assignee), "")
	}

	contextText := item.Context
	if contextText == "" {
		contextText = noContextPlaceholder
	}
	parts = append(parts,
		"**Context from Meeting:**",
		contextText,
		"",
		fmt.Sprintf("**Source:** %s", meetingTitle))

	return strings.Join(parts, "\n")
}

// truncateName cuts an over-long task name at the latest phrase boundary
// past the minimum position, falling back to the last space and then a
// hard cut.
func truncateName(name string) string {
	name = assigneePrefixRe.ReplaceAllString(name, "")
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	if len(name) <= maxTaskNameLength {
		return name
	}

	head := name[:maxTaskNameLength]
	best := -1
	for _, boundary := range truncateBoundaries {
		if pos := strings.LastIndex(head, boundary); pos > best && pos > minTruncatePos {
			best = pos
		}
	}
	if best > minTruncatePos {
		return name[:best]
	}
	if last := strings.LastIndex(head, " "); last > minTruncatePos {
		return name[:last]
	}
	return head
}

// meetingTags derives tracker tags from the meeting title; every task
// also carries the default tag.
func meetingTags(title string) []string {
	lower := strings.ToLower(title)

	var tags []string
	switch {
	case strings.Contains(lower, "bevmo"):
		tags = append(tags, "bevmo")
	case strings.Contains(lower, "total wine"):
		tags = append(tags, "total-wine")
	case strings.Contains(lower, "vfx"), strings.Contains(lower, "visual effects"):
		tags = append(tags, "vfx")
	}
	return append(tags, defaultTag)
}
