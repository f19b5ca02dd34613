package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	meetingDateRe = regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+(\d{1,2}),?\s+(\d{4})`)
	endOfDayRe    = regexp.MustCompile(`by the end of (?:the )?day|end of day|eod`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// MeetingDateFromTitle parses a month-name + day + year date out of a
// meeting title ("Stand Up Oct 17, 2025"). Titles without a parseable date
// fall back to now.
func MeetingDateFromTitle(title string, now time.Time) time.Time {
	m := meetingDateRe.FindStringSubmatch(title)
	if m == nil {
		return now
	}

	month, ok := monthsByPrefix[strings.ToLower(m[1])[:3]]
	if !ok {
		return now
	}
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 || day > 31 {
		return now
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return now
	}

	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}

// InferDueDate resolves a due date from temporal phrases in the task and
// context text, anchored to the reference date. Phrase tiers are tested in
// a fixed order and the first match wins; with no match the reference date
// itself is the due date. Deterministic for identical inputs.
func InferDueDate(taskText, context string, ref time.Time) DueDate {
	combined := strings.ToLower(taskText + " " + context)

	due := ref
	switch {
	case endOfDayRe.MatchString(combined),
		strings.Contains(combined, "today"),
		strings.Contains(combined, "tonight"):
		due = time.Date(ref.Year(), ref.Month(), ref.Day(), 23, 59, 0, 0, ref.Location())
	case strings.Contains(combined, "tomorrow"):
		due = ref.AddDate(0, 0, 1)
	case strings.Contains(combined, "monday"):
		due = nextWeekday(ref, time.Monday)
	case strings.Contains(combined, "tuesday"):
		due = nextWeekday(ref, time.Tuesday)
	case strings.Contains(combined, "wednesday"):
		due = nextWeekday(ref, time.Wednesday)
	case strings.Contains(combined, "thursday"):
		due = nextWeekday(ref, time.Thursday)
	case strings.Contains(combined, "friday"):
		due = nextWeekday(ref, time.Friday)
	case strings.Contains(combined, "in advance"):
		due = ref.AddDate(0, 0, 1)
	case strings.Contains(combined, "this week"):
		due = endOfWeek(ref)
	case strings.Contains(combined, "next week"):
		due = ref.AddDate(0, 0, 7)
	}

	return DueDate{
		DateString: due.Format("January 02, 2006"),
		DueDateMS:  due.UnixMilli(),
		Time:       due,
	}
}

// nextWeekday returns the next occurrence of target strictly after ref:
// when ref already falls on target, the date rolls forward a full week.
func nextWeekday(ref time.Time, target time.Weekday) time.Time {
	days := (int(target) - int(ref.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return ref.AddDate(0, 0, days)
}

// endOfWeek returns the Friday of the reference week (the reference date
// itself when it already is Friday; the following Friday on weekends).
func endOfWeek(ref time.Time) time.Time {
	days := (int(time.Friday) - int(ref.Weekday()) + 7) % 7
	return ref.AddDate(0, 0, days)
}
