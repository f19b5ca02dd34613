package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gutfeelinglabs/taskpipe/internal/textutil"
)

// minShortenedLength guards against shortening producing a near-empty
// title; below it the original text is kept.
const minShortenedLength = 10

var (
	leadingModalRe     = regexp.MustCompile(`(?i)^(?:will|should|needs? to)\s+`)
	coordinateWithRe   = regexp.MustCompile(`(?i)^coordinate with .*?\bto\s+`)
	simplificationsRaw = []struct {
		pattern, replacement string
	}{
		{`\s+separately\s+`, " "},
		{`\s+for anything that was missed during the call\s*`, ""},
		{`\s+and circulate it for review\s*`, " and circulate"},
		{`to see if they are open to`, "about"},
		{`45-second or 1-minute`, "45-60 sec"},
		{`will aim to`, ""},
		{`the exact\s+`, ""},
		{`\s+being used`, ""},
		{`\s+to make sure it is good`, ""},
		{`\s+and drop the screenshots of the AI test with the transition into Slack`, ""},
		{`\s+to help with pacing`, " for pacing"},
		{`\s+for the script`, ""},
		{`recreating each scene with a DIY version\s+`, ""},
	}
	simplifications = compileSimplifications()
)

type simplification struct {
	re          *regexp.Regexp
	replacement string
}

func compileSimplifications() []simplification {
	out := make([]simplification, 0, len(simplificationsRaw))
	for _, s := range simplificationsRaw {
		out = append(out, simplification{
			re:          regexp.MustCompile(`(?i)` + s.pattern),
			replacement: s.replacement,
		})
	}
	return out
}

// ShortenTaskName derives a display title from a verbatim action line:
// the "<assignee> will" clause and generic leading modals are stripped, a
// "coordinate with X to" clause keeps its trailing action, verbose phrases
// are simplified, and the first letter is capitalized. Results under 10
// characters are rejected in favor of the original text.
func ShortenTaskName(taskText, assignee string) string {
	original := strings.TrimSpace(taskText)
	shortened := original

	if assignee != "" {
		assigneeWillRe, err := regexp.Compile(`(?i)^` + regexp.QuoteMeta(assignee) + `\s+will\s+`)
		if err == nil {
			shortened = assigneeWillRe.ReplaceAllString(shortened, "")
		}
	}

	shortened = leadingModalRe.ReplaceAllString(shortened, "")
	shortened = coordinateWithRe.ReplaceAllString(shortened, "")

	for _, s := range simplifications {
		shortened = s.re.ReplaceAllString(shortened, s.replacement)
	}

	shortened = capitalizeFirst(shortened)
	shortened = textutil.CollapseSpaces(shortened)

	if len(shortened) < minShortenedLength {
		return original
	}
	return shortened
}

func capitalizeFirst(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
