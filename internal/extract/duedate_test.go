package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ref is Friday, October 17, 2025.
var ref = time.Date(2025, time.October, 17, 0, 0, 0, 0, time.UTC)

func TestInferDueDate(t *testing.T) {
	tests := []struct {
		name     string
		task     string
		context  string
		wantDate string
	}{
		{"end of day", "Send the budget by end of day", "", "October 17, 2025"},
		{"eod abbreviation", "Send the budget EOD", "", "October 17, 2025"},
		{"today", "Share the brief today", "", "October 17, 2025"},
		{"tonight", "Upload the cut tonight", "", "October 17, 2025"},
		{"tomorrow", "Update the budget by tomorrow", "", "October 18, 2025"},
		{"named weekday", "Circulate the deck by Monday", "", "October 20, 2025"},
		{"same weekday rolls a week", "Review the edit on Friday", "", "October 24, 2025"},
		{"in advance", "Send the agenda in advance", "", "October 18, 2025"},
		{"this week on friday", "Finish the shot list this week", "", "October 17, 2025"},
		{"next week", "Kick off casting next week", "", "October 24, 2025"},
		{"no phrase defaults to reference", "Update the creative concepts", "", "October 17, 2025"},
		{"phrase in context", "Update the concepts", "Client wants it by tomorrow", "October 18, 2025"},
		{"today outranks weekday", "Finish today, review Monday", "", "October 17, 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferDueDate(tt.task, tt.context, ref)
			assert.Equal(t, tt.wantDate, got.DateString)
			assert.Equal(t, got.Time.UnixMilli(), got.DueDateMS)
		})
	}
}

func TestInferDueDate_EndOfDayTime(t *testing.T) {
	got := InferDueDate("wrap this up tonight", "", ref)
	assert.Equal(t, 23, got.Time.Hour())
	assert.Equal(t, 59, got.Time.Minute())
}

func TestInferDueDate_Deterministic(t *testing.T) {
	a := InferDueDate("Update the budget by tomorrow", "some context", ref)
	b := InferDueDate("Update the budget by tomorrow", "some context", ref)
	assert.Equal(t, a, b)
}

func TestInferDueDate_ThisWeekFromWeekend(t *testing.T) {
	saturday := time.Date(2025, time.October, 18, 0, 0, 0, 0, time.UTC)
	got := InferDueDate("wrap the deliverables this week", "", saturday)
	assert.Equal(t, "October 24, 2025", got.DateString)
}

func TestMeetingDateFromTitle(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		title string
		want  time.Time
	}{
		{"abbreviated month", "Stand Up Oct 17, 2025", time.Date(2025, time.October, 17, 0, 0, 0, 0, time.UTC)},
		{"full month name", "Kickoff October 3 2025", time.Date(2025, time.October, 3, 0, 0, 0, 0, time.UTC)},
		{"no date falls back to now", "Weekly Sync", now},
		{"empty title", "", now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MeetingDateFromTitle(tt.title, now))
		})
	}
}
