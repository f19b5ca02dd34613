package extract

import "testing"

func TestShortenTaskName(t *testing.T) {
	tests := []struct {
		name     string
		task     string
		assignee string
		want     string
	}{
		{
			name:     "assignee will prefix stripped",
			task:     "Matt Rose will update the budget by tomorrow",
			assignee: "Matt Rose",
			want:     "Update the budget by tomorrow",
		},
		{
			name:     "generic modal stripped",
			task:     "should circulate the production brief for review",
			assignee: "",
			want:     "Circulate the production brief for review",
		},
		{
			name:     "needs to stripped",
			task:     "needs to lock the shoot location this week",
			assignee: "",
			want:     "Lock the shoot location this week",
		},
		{
			name:     "coordinate with keeps trailing action",
			task:     "Coordinate with Aidan Wilde to create the outro card",
			assignee: "",
			want:     "Create the outro card",
		},
		{
			name:     "phrase simplification",
			task:     "review the rough cut separately and circulate it for review",
			assignee: "",
			want:     "Review the rough cut and circulate",
		},
		{
			name:     "short result keeps original",
			task:     "Matt Rose will call",
			assignee: "Matt Rose",
			want:     "Matt Rose will call",
		},
		{
			name:     "already short original unchanged",
			task:     "Call Art",
			assignee: "",
			want:     "Call Art",
		},
		{
			name:     "whitespace collapsed",
			task:     "update   the  deck   for Monday",
			assignee: "",
			want:     "Update the deck for Monday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortenTaskName(tt.task, tt.assignee); got != tt.want {
				t.Errorf("ShortenTaskName(%q, %q) = %q, want %q", tt.task, tt.assignee, got, tt.want)
			}
		})
	}
}

func TestShortenTaskName_NeverNearEmpty(t *testing.T) {
	inputs := []struct {
		task     string
		assignee string
	}{
		{"Drew will sync", "Drew"},
		{"will do it", ""},
		{"Coordinate with Paula to go", ""},
	}

	for _, in := range inputs {
		got := ShortenTaskName(in.task, in.assignee)
		if len(got) < minShortenedLength && got != in.task {
			t.Errorf("ShortenTaskName(%q, %q) = %q: under %d chars and not the original",
				in.task, in.assignee, got, minShortenedLength)
		}
	}
}
