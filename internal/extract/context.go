package extract

import (
	"regexp"
	"sort"
	"strings"
)

// minParagraphLength filters out headings and fragments when scoring
// Details-section paragraphs.
const minParagraphLength = 50

// speakerLineRe marks the start of a new speaker or heading inside the
// Details section: a capitalized two-word sequence at line start.
var speakerLineRe = regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+`)

// relevantContext returns up to two Details-section paragraphs supporting
// the task, scored by key-term overlap (assignee name plus any configured
// domain keyword present in the task text). Timestamps embedded in
// paragraphs pass through unmodified.
func relevantContext(taskText, detailsSection, assignee string, keywords []string) string {
	if detailsSection == "" {
		return ""
	}

	var keyTerms []string
	if assignee != "" {
		keyTerms = append(keyTerms, strings.ToLower(assignee))
	}
	taskLower := strings.ToLower(taskText)
	for _, kw := range keywords {
		if strings.Contains(taskLower, kw) {
			keyTerms = append(keyTerms, kw)
		}
	}
	if len(keyTerms) == 0 {
		return ""
	}

	type scored struct {
		score int
		text  string
	}
	var paragraphs []scored

	for _, para := range splitSpeakerParagraphs(detailsSection) {
		para = strings.TrimSpace(para)
		if len(para) < minParagraphLength {
			continue
		}

		paraLower := strings.ToLower(para)
		score := 0
		for _, term := range keyTerms {
			if strings.Contains(paraLower, term) {
				score++
			}
		}
		if score >= 1 {
			paragraphs = append(paragraphs, scored{score: score, text: para})
		}
	}

	sort.SliceStable(paragraphs, func(i, j int) bool {
		return paragraphs[i].score > paragraphs[j].score
	})
	if len(paragraphs) > 2 {
		paragraphs = paragraphs[:2]
	}

	parts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		parts = append(parts, strings.ReplaceAll(p.text, "\n", " "))
	}
	return strings.Join(parts, "\n\n")
}

// splitSpeakerParagraphs splits the Details section into paragraphs on
// lines that look like a new speaker or heading.
func splitSpeakerParagraphs(details string) []string {
	lines := strings.Split(details, "\n")

	var paragraphs []string
	var current []string
	for _, line := range lines {
		if speakerLineRe.MatchString(line) && len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = current[:0]
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, "\n"))
	}
	return paragraphs
}
