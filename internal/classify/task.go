package classify

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gutfeelinglabs/taskpipe/internal/patterns"
	"github.com/gutfeelinglabs/taskpipe/internal/textutil"
)

const (
	defaultTaskAliasConfidence   = 0.95
	defaultTaskKeywordConfidence = 0.85
	defaultTaskPersonConfidence  = 0.65

	// fallbackConfidence is attached to a meeting-level suggestion used
	// as a weak per-task default.
	fallbackConfidence = 0.5

	// suggestionWordOverlap is the looser overlap used when mining
	// meeting-level title patterns for weak suggestions.
	suggestionWordOverlap = 0.7
)

// TaskMatch is a task-level result with its signal strength attached.
// Suggestion carries a task-level match that scored below the override
// threshold: it did not pick the destination but is kept as a hint for
// the reader.
type TaskMatch struct {
	Match
	Strength   Strength
	Suggestion *TaskMatch
}

// ClassifyTask matches a single task's text and context against the
// task-level patterns: explicit project aliases first, then keyword
// patterns, then person associations. The second return value is false
// when no task-level pattern fires.
func (c *Classifier) ClassifyTask(taskText, taskContext string) (TaskMatch, bool) {
	combined := textutil.Normalize(taskText)
	if ctx := textutil.Normalize(taskContext); ctx != "" {
		combined = combined + " " + ctx
	}

	if m, ok := c.matchTaskAliases(combined); ok {
		return m, true
	}
	if m, ok := c.matchTaskKeywords(combined); ok {
		return m, true
	}
	if m, ok := c.matchTaskPersons(combined); ok {
		return m, true
	}
	return TaskMatch{}, false
}

func (c *Classifier) matchTaskAliases(combined string) (TaskMatch, bool) {
	var best TaskMatch
	for _, alias := range sortedKeys(c.doc.Patterns.TaskLevel.ProjectAliases) {
		if !strings.Contains(combined, alias) {
			continue
		}
		entry := c.doc.Patterns.TaskLevel.ProjectAliases[alias]
		conf := confOr(entry.Confidence, defaultTaskAliasConfidence)
		if conf > best.Confidence {
			best = c.taskMatch(entry.Destination, conf, fmt.Sprintf("project_alias (%s)", alias))
		}
	}
	return best, best.Confidence > 0
}

func (c *Classifier) matchTaskKeywords(combined string) (TaskMatch, bool) {
	var best TaskMatch
	for _, keyword := range sortedKeys(c.doc.Patterns.TaskLevel.KeywordPatterns) {
		if !strings.Contains(combined, keyword) {
			continue
		}
		entry := c.doc.Patterns.TaskLevel.KeywordPatterns[keyword]

		// A pattern with required context words only fires when at least
		// one of them is present.
		if len(entry.ContextRequired) > 0 {
			found := false
			for _, ctx := range entry.ContextRequired {
				if strings.Contains(combined, textutil.Normalize(ctx)) {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}

		conf := confOr(entry.Confidence, defaultTaskKeywordConfidence)
		if conf > best.Confidence {
			best = c.taskMatch(entry.Destination, conf, fmt.Sprintf("keyword_pattern (%s)", keyword))
		}
	}
	return best, best.Confidence > 0
}

func (c *Classifier) matchTaskPersons(combined string) (TaskMatch, bool) {
	for _, name := range sortedKeys(c.doc.Patterns.TaskLevel.PersonPatterns) {
		if !strings.Contains(combined, name) {
			continue
		}
		entry := c.doc.Patterns.TaskLevel.PersonPatterns[name]
		if len(entry.LikelyProjects) == 0 {
			continue
		}

		best := entry.LikelyProjects[0]
		for _, p := range entry.LikelyProjects[1:] {
			if p.Probability > best.Probability {
				best = p
			}
		}

		conf := confOr(entry.Confidence, defaultTaskPersonConfidence)
		return c.taskMatch(best.Destination, conf, fmt.Sprintf("person_pattern (%s)", name)), true
	}
	return TaskMatch{}, false
}

func (c *Classifier) taskMatch(dest patterns.Destination, conf float64, source string) TaskMatch {
	m := Match{Destination: dest, Confidence: conf, Source: source}
	if !m.Destination.Resolved() {
		space, id, ok := c.hierarchy.ResolveListID(m.Destination.FolderName, m.Destination.ListName)
		if ok {
			m.Destination.ListID = id
			if m.Destination.SpaceName == "" {
				m.Destination.SpaceName = space
			}
		}
	}
	return TaskMatch{Match: m, Strength: StrengthFor(conf)}
}

// MeetingSuggestions mines title patterns that carry likely-project hints
// for weak per-task defaults. A pattern contributes when at least 70% of
// its words appear in the title.
func (c *Classifier) MeetingSuggestions(title string) []patterns.ProjectOdds {
	titleWords := textutil.Words(title)

	for _, key := range sortedKeys(c.doc.Patterns.TitlePatterns) {
		entry := c.doc.Patterns.TitlePatterns[key]
		if len(entry.LikelyProjects) == 0 {
			continue
		}

		words := strings.Fields(key)
		if len(words) == 0 {
			continue
		}
		matched := 0
		for _, w := range words {
			if _, ok := titleWords[w]; ok {
				matched++
			}
		}
		if float64(matched)/float64(len(words)) >= suggestionWordOverlap {
			return entry.LikelyProjects
		}
	}
	return nil
}

// ResolveTask picks the destination for one task. A task-level match that
// clears the override threshold wins; otherwise the meeting-level match is
// kept, falling back to the first of the meeting suggestions (obtained
// once per meeting via MeetingSuggestions) as a weak signal. A task-level
// match below the threshold never decides the route but is retained on
// the result as a Suggestion. The boolean is false when no destination
// could be determined at all.
func (c *Classifier) ResolveTask(taskText, taskContext string, meeting Match, meetingOK bool, suggestions []patterns.ProjectOdds) (TaskMatch, bool) {
	tm, tmOK := c.ClassifyTask(taskText, taskContext)
	if tmOK && tm.Confidence >= c.cfg.TaskOverrideThreshold {
		c.logger.Debug("task-level destination override",
			zap.String("task", taskText),
			zap.String("source", tm.Source),
			zap.Float64("confidence", tm.Confidence))
		return tm, true
	}

	var hint *TaskMatch
	if tmOK {
		h := tm
		hint = &h
		c.logger.Debug("task-level match below override threshold, kept as suggestion",
			zap.String("task", taskText),
			zap.String("source", tm.Source),
			zap.Float64("confidence", tm.Confidence))
	}

	if meetingOK {
		return TaskMatch{
			Match:      meeting,
			Strength:   StrengthFor(meeting.Confidence),
			Suggestion: hint,
		}, true
	}

	if len(suggestions) > 0 {
		m := Match{
			Destination: suggestions[0].Destination,
			Confidence:  fallbackConfidence,
			Source:      "meeting_level_fallback",
		}
		return TaskMatch{Match: m, Strength: StrengthWeak, Suggestion: hint}, true
	}

	return TaskMatch{Suggestion: hint}, false
}
