package reconcile

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSimilar_ThresholdAndOrdering(t *testing.T) {
	r := NewReconciler(nil)
	existing := []ExistingTask{
		{ID: "1", Name: "Update the BevMo creative concepts"},
		{ID: "2", Name: "Update BevMo creative concepts"},
		{ID: "3", Name: "Review Gopuff campaign timeline"},
	}

	matches := r.FindSimilar("Update BevMo creative concepts", existing)
	require.Len(t, matches, 2)
	assert.Equal(t, "2", matches[0].Task.ID)
	assert.InDelta(t, 1.0, matches[0].Similarity, 0.001)
	assert.Equal(t, "1", matches[1].Task.ID)
	assert.GreaterOrEqual(t, matches[1].Similarity, 0.85)
}

func TestFindSimilar_CustomThreshold(t *testing.T) {
	r := NewReconciler(nil, WithThreshold(0.99))
	existing := []ExistingTask{
		{ID: "1", Name: "Update the BevMo creative concepts"},
	}

	matches := r.FindSimilar("Update BevMo creative concepts", existing)
	assert.Empty(t, matches)
}

func TestCompare_DueDateOnlyCountsWhenNewTaskHasOne(t *testing.T) {
	r := NewReconciler(nil)
	existing := ExistingTask{DueDate: 1760659200000}

	changes := r.Compare(NewTask{DueDate: 0}, existing)
	assert.False(t, changes.DueDateChanged)
	assert.False(t, changes.HasChanges)

	changes = r.Compare(NewTask{DueDate: 1760745600000}, existing)
	assert.True(t, changes.DueDateChanged)
	assert.True(t, changes.HasChanges)
	assert.Equal(t, int64(1760659200000), changes.OldDueDate)
	assert.Equal(t, int64(1760745600000), changes.NewDueDate)
}

func TestCompare_AssigneesAsUnorderedSets(t *testing.T) {
	r := NewReconciler(nil)

	changes := r.Compare(
		NewTask{Assignees: []string{"u2", "u1"}},
		ExistingTask{Assignees: []string{"u1", "u2"}},
	)
	assert.False(t, changes.AssigneeChanged)

	changes = r.Compare(
		NewTask{Assignees: []string{"u3"}},
		ExistingTask{Assignees: []string{"u1"}},
	)
	assert.True(t, changes.AssigneeChanged)
	assert.Equal(t, []string{"u1"}, changes.OldAssignees)
	assert.Equal(t, []string{"u3"}, changes.NewAssignees)
}

func TestCompare_DescriptionNeedsNewInformation(t *testing.T) {
	r := NewReconciler(nil)
	existing := ExistingTask{Description: "Ship the revised creative cut to the client."}

	// Empty new description never counts.
	changes := r.Compare(NewTask{Description: ""}, existing)
	assert.False(t, changes.DescriptionDifferent)

	// Whitespace-only differences never count.
	changes = r.Compare(NewTask{Description: "  Ship the revised creative cut to the client.  "}, existing)
	assert.False(t, changes.DescriptionDifferent)

	// Genuinely new content counts.
	changes = r.Compare(NewTask{Description: "Budget approval is also needed before Friday."}, existing)
	assert.True(t, changes.DescriptionDifferent)
	assert.True(t, changes.HasChanges)
}

func TestDecide_CreateUpdateSkip(t *testing.T) {
	r := NewReconciler(nil)
	existing := []ExistingTask{
		{ID: "1", Name: "Update the BevMo creative concepts", DueDate: 1760659200000},
	}

	// No name match at all.
	d := r.Decide(NewTask{Name: "Review Gopuff campaign timeline"}, existing)
	assert.Equal(t, ActionCreate, d.Action)
	assert.Nil(t, d.Existing)

	// Match with a new due date.
	d = r.Decide(NewTask{Name: "Update BevMo creative concepts", DueDate: 1760745600000}, existing)
	assert.Equal(t, ActionUpdate, d.Action)
	require.NotNil(t, d.Existing)
	assert.Equal(t, "1", d.Existing.ID)
	assert.True(t, d.Changes.DueDateChanged)

	// Match with nothing new.
	d = r.Decide(NewTask{Name: "Update BevMo creative concepts", DueDate: 1760659200000}, existing)
	assert.Equal(t, ActionSkip, d.Action)
	require.NotNil(t, d.Existing)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "No changes detected", Summary(Changes{}))

	s := Summary(Changes{
		HasChanges:           true,
		DueDateChanged:       true,
		OldDueDate:           time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC).UnixMilli(),
		NewDueDate:           time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC).UnixMilli(),
		AssigneeChanged:      true,
		DescriptionDifferent: true,
	})
	assert.Equal(t, "Due date: 2025-10-17 → 2025-10-18 | Assignee changed | Description has new information", s)
}

func TestUpdateComment(t *testing.T) {
	r := NewReconciler(nil)
	r.now = func() time.Time { return time.Date(2025, 10, 17, 14, 5, 0, 0, time.UTC) }

	comment := r.UpdateComment("Matt Rose and Drew Chats", Changes{
		HasChanges:      true,
		AssigneeChanged: true,
	})

	lines := strings.Split(comment, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Updated from meeting: **Matt Rose and Drew Chats**", lines[0])
	assert.Equal(t, "Date: 2025-10-17 14:05", lines[1])
	assert.Equal(t, "Assignee updated", lines[2])
}

func TestMergeDescriptions(t *testing.T) {
	r := NewReconciler(nil)

	assert.Equal(t, "new", r.MergeDescriptions("", "new"))
	assert.Equal(t, "old", r.MergeDescriptions("old", ""))

	same := "Ship the revised creative cut to the client."
	assert.Equal(t, same, r.MergeDescriptions(same, same))

	merged := r.MergeDescriptions("Original context.", "Budget approval is also needed.")
	assert.Equal(t, "Original context.\n\n---\nUpdated from new meeting notes:\nBudget approval is also needed.", merged)
}
