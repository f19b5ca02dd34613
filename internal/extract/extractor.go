package extract

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	detailsRe   = regexp.MustCompile(`(?is)details[\s:]*\n(.*?)(?:suggested next steps|action items|next steps|$)`)
	nextStepsRe = regexp.MustCompile(`(?i)(?:suggested next steps|action items|next steps|follow[- ]up|to[- ]?do)[\s:]*\n((?:.*\n)*?)(?:\n\n|$)`)

	fullNameRe = regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)+)\b`)

	checkboxMarkerRe = regexp.MustCompile(`^[☐☑✓✗☒□■]\s*`)
	bulletMarkerRe   = regexp.MustCompile(`^[-•*]\s+`)
	numberMarkerRe   = regexp.MustCompile(`^\d+\.\s+`)

	actionPrefixLineRe = regexp.MustCompile(`(?im)^\s*[-•*]\s*(?:action|todo|task):\s*(.+)$`)
	modalClauseLineRe  = regexp.MustCompile(`(?im)^\s*[-•*]\s*(\S.*?\s+(?:will|should|needs? to)\s+.+)$`)
	numberedLineRe     = regexp.MustCompile(`(?m)^\s*\d+\.\s*(.+)$`)
)

// footerPhrases mark note-taker boilerplate lines that are never action
// items.
var footerPhrases = []string{
	"you should review",
	"please provide feedback",
	"get tips and learn",
}

var (
	urgentKeywords = []string{"urgent", "asap", "immediately", "critical", "today", "tonight"}
	highKeywords   = []string{"important", "priority", "high"}
)

// Extractor scans meeting-notes text for action items.
type Extractor struct {
	cfg          Config
	dir          Directory
	logger       *zap.Logger
	now          func() time.Time
	knownNamesRe *regexp.Regexp
	ignored      map[string]struct{}
}

// NewExtractor creates an extractor. dir may be nil when no team directory
// is available; logger may be nil.
func NewExtractor(cfg Config, dir Directory, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.KnownFirstNames) == 0 {
		cfg.KnownFirstNames = DefaultConfig().KnownFirstNames
	}
	if len(cfg.ContextKeywords) == 0 {
		cfg.ContextKeywords = DefaultConfig().ContextKeywords
	}
	if cfg.MinLineLength == 0 {
		cfg.MinLineLength = DefaultConfig().MinLineLength
	}

	ignored := make(map[string]struct{}, len(cfg.IgnoredAssignees))
	for _, name := range cfg.IgnoredAssignees {
		ignored[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	escaped := make([]string, 0, len(cfg.KnownFirstNames))
	for _, n := range cfg.KnownFirstNames {
		escaped = append(escaped, regexp.QuoteMeta(strings.ToLower(n)))
	}

	return &Extractor{
		cfg:          cfg,
		dir:          dir,
		logger:       logger,
		now:          time.Now,
		knownNamesRe: regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`),
		ignored:      ignored,
	}
}

// Extract parses action items out of a notes document. The meeting date
// parsed from the title anchors due-date inference. Items are ordered as
// found and de-duplicated by task text, first occurrence winning. A
// document matching no pattern yields an empty list.
func (e *Extractor) Extract(content, title string) []ActionItem {
	meetingDate := MeetingDateFromTitle(title, e.now())
	details := detailsSection(content)

	var items []ActionItem
	if section := nextStepsSection(content); section != "" {
		e.logger.Debug("next steps section found",
			zap.Int("section_chars", len(section)),
			zap.String("meeting_title", title))

		for _, line := range strings.Split(strings.TrimSpace(section), "\n") {
			line = strings.TrimSpace(line)
			if len(line) < e.cfg.MinLineLength || isFooterLine(line) {
				continue
			}
			items = append(items, e.buildItem(line, details, meetingDate))
		}
	} else {
		e.logger.Debug("no next steps section, trying generic patterns",
			zap.String("meeting_title", title))
		items = e.extractGeneric(content, details, meetingDate)
	}

	return dedupeByTask(items)
}

// extractGeneric applies the fallback line patterns: explicit
// ACTION/TODO/TASK prefixes, "<subject> will/should/needs to" clauses, and
// numbered-list lines.
func (e *Extractor) extractGeneric(content, details string, meetingDate time.Time) []ActionItem {
	var items []ActionItem

	for _, re := range []*regexp.Regexp{actionPrefixLineRe, modalClauseLineRe, numberedLineRe} {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			line := stripLineMarkers(m[1])
			if len(line) < e.cfg.MinLineLength || strings.HasSuffix(line, ":") {
				continue
			}
			items = append(items, e.buildItem(line, details, meetingDate))
		}
	}
	return items
}

// buildItem assembles one ActionItem from a candidate line.
func (e *Extractor) buildItem(line, details string, meetingDate time.Time) ActionItem {
	taskText := stripLineMarkers(line)
	assignee := e.chooseAssignee(taskText)
	task := ShortenTaskName(taskText, assignee)
	context := relevantContext(taskText, details, assignee, e.cfg.ContextKeywords)

	return ActionItem{
		Task:         task,
		OriginalTask: taskText,
		Assignee:     assignee,
		Priority:     estimatePriority(taskText),
		Context:      context,
		DueDate:      InferDueDate(taskText, context, meetingDate),
	}
}

// chooseAssignee picks the assignee for a line: every candidate name is
// collected (capitalized sequences first, then known first names), ignored
// names are dropped, and the first name the team directory resolves wins;
// failing that, the first remaining name.
func (e *Extractor) chooseAssignee(line string) string {
	names := fullNameRe.FindAllString(line, -1)
	names = append(names, e.knownNamesRe.FindAllString(line, -1)...)

	var candidates []string
	for _, name := range names {
		if _, skip := e.ignored[strings.ToLower(name)]; !skip {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	if e.dir != nil {
		for _, name := range candidates {
			if _, ok := e.dir.Resolve(name); ok {
				return name
			}
		}
	}
	return candidates[0]
}

// detailsSection extracts the Details section bounded by the next known
// section heading or end of text. Absence yields an empty string.
func detailsSection(content string) string {
	m := detailsRe.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// nextStepsSection locates the next-steps region under any of the synonym
// headings.
func nextStepsSection(content string) string {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	m := nextStepsRe.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return m[1]
}

func stripLineMarkers(line string) string {
	line = checkboxMarkerRe.ReplaceAllString(line, "")
	line = bulletMarkerRe.ReplaceAllString(line, "")
	line = numberMarkerRe.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

func isFooterLine(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range footerPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func estimatePriority(taskText string) Priority {
	lower := strings.ToLower(taskText)
	for _, kw := range urgentKeywords {
		if strings.Contains(lower, kw) {
			return PriorityUrgent
		}
	}
	for _, kw := range highKeywords {
		if strings.Contains(lower, kw) {
			return PriorityHigh
		}
	}
	return PriorityNone
}

func dedupeByTask(items []ActionItem) []ActionItem {
	seen := make(map[string]struct{}, len(items))
	unique := items[:0:0]
	for _, item := range items {
		if _, dup := seen[item.Task]; dup {
			continue
		}
		seen[item.Task] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}
