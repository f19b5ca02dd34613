package classify

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/gutfeelinglabs/taskpipe/internal/patterns"
	"github.com/gutfeelinglabs/taskpipe/internal/similarity"
	"github.com/gutfeelinglabs/taskpipe/internal/textutil"
)

const (
	// defaultSpaceName fills in the space for learned destinations that
	// only record folder and list.
	defaultSpaceName = "Clients"

	// titleWordOverlap is the fraction of pattern words that must appear
	// in the meeting title for a title pattern to fire.
	titleWordOverlap = 0.8

	defaultTitleConfidence       = 0.9
	defaultKeywordConfidence     = 0.8
	defaultParticipantConfidence = 0.85
	defaultAliasConfidence       = 0.75
)

// compoundVariants expands compound words in stored title patterns so a
// title written "stand up" still matches a pattern learned as "standup".
var compoundVariants = map[string][]string{
	"standup": {"stand up", "stand-up"},
	"sync":    {"syncing", "synchronization"},
	"meetup":  {"meet up", "meet-up"},
}

// Config carries the classifier thresholds.
type Config struct {
	// FuzzyThreshold is the minimum combined score for a fuzzy hierarchy
	// match to be accepted.
	FuzzyThreshold float64

	// TaskOverrideThreshold is the minimum task-level confidence required
	// to override the meeting-level destination.
	TaskOverrideThreshold float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold:        0.5,
		TaskOverrideThreshold: 0.7,
	}
}

// Classifier matches meetings and tasks to tracker destinations. It works
// over an immutable pattern snapshot; callers re-create it after pattern
// corrections.
type Classifier struct {
	cfg       Config
	doc       patterns.Document
	hierarchy Hierarchy
	sim       similarity.Func
	logger    *zap.Logger
}

// NewClassifier creates a classifier over a pattern snapshot and a
// workspace hierarchy.
func NewClassifier(doc patterns.Document, hierarchy Hierarchy, cfg Config, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		cfg:       cfg,
		doc:       doc,
		hierarchy: hierarchy,
		sim:       similarity.Ratio,
		logger:    logger,
	}
}

// SetSimilarity replaces the string similarity function. Intended for
// tests and tuning.
func (c *Classifier) SetSimilarity(fn similarity.Func) {
	if fn != nil {
		c.sim = fn
	}
}

// Classify determines the meeting-level destination. Learned patterns are
// consulted in priority order; fuzzy hierarchy matching is the fallback.
// The second return value is false when nothing clears the thresholds.
func (c *Classifier) Classify(title, content string) (Match, bool) {
	if m, ok := c.matchTitle(title); ok {
		return c.finish(m, "title_pattern"), true
	}
	if m, ok := c.matchKeywords(content); ok {
		return c.finish(m, "keyword_pattern"), true
	}
	if m, ok := c.matchParticipants(content); ok {
		return c.finish(m, "participant_pattern"), true
	}
	if m, ok := c.matchAliases(content); ok {
		return c.finish(m, "project_alias"), true
	}

	c.logger.Debug("no learned pattern matched, trying fuzzy hierarchy match",
		zap.String("title", title))
	return c.fuzzyMatch(title, content)
}

func (c *Classifier) matchTitle(title string) (Match, bool) {
	normalized := textutil.Normalize(title)
	titleWords := textutil.Words(normalized)

	for _, key := range sortedKeys(c.doc.Patterns.TitlePatterns) {
		entry := c.doc.Patterns.TitlePatterns[key]
		conf := confOr(entry.Confidence, defaultTitleConfidence)

		// Best word-overlap ratio across the stored key and its
		// compound-word expansions.
		best := 0.0
		for _, candidate := range expandCompounds(key) {
			words := strings.Fields(candidate)
			if len(words) == 0 {
				continue
			}
			matched := 0
			for _, w := range words {
				if _, ok := titleWords[w]; ok {
					matched++
				}
			}
			ratio := float64(matched) / float64(len(words))
			if ratio > best {
				best = ratio
			}
		}
		if best >= titleWordOverlap {
			return Match{Destination: entry.Destination, Confidence: conf * best}, true
		}

		// Substring fallback.
		if strings.Contains(normalized, key) {
			return Match{Destination: entry.Destination, Confidence: conf}, true
		}
	}
	return Match{}, false
}

func (c *Classifier) matchKeywords(content string) (Match, bool) {
	normalized := textutil.Normalize(content)

	var best Match
	for _, key := range sortedKeys(c.doc.Patterns.KeywordPatterns) {
		entry := c.doc.Patterns.KeywordPatterns[key]
		if !allSegmentsPresent(key, normalized) {
			continue
		}
		conf := confOr(entry.Confidence, defaultKeywordConfidence)
		if conf > best.Confidence {
			best = Match{Destination: entry.Destination, Confidence: conf}
		}
	}
	return best, best.Confidence > 0
}

func (c *Classifier) matchParticipants(content string) (Match, bool) {
	normalized := textutil.Normalize(content)

	for _, key := range sortedKeys(c.doc.Patterns.ParticipantPatterns) {
		entry := c.doc.Patterns.ParticipantPatterns[key]
		if !allSegmentsPresent(key, normalized) {
			continue
		}
		conf := confOr(entry.Confidence, defaultParticipantConfidence)
		return Match{Destination: entry.Destination, Confidence: conf}, true
	}
	return Match{}, false
}

func (c *Classifier) matchAliases(content string) (Match, bool) {
	normalized := textutil.Normalize(content)

	for _, alias := range sortedKeys(c.doc.Patterns.ProjectAliases) {
		if !strings.Contains(normalized, alias) {
			continue
		}
		entry := c.doc.Patterns.ProjectAliases[alias]
		conf := confOr(entry.Confidence, defaultAliasConfidence)
		return Match{Destination: entry.Destination, Confidence: conf}, true
	}
	return Match{}, false
}

// finish completes a learned-pattern match: resolves a missing list ID
// against the hierarchy and fills in the default space name.
func (c *Classifier) finish(m Match, source string) Match {
	m.Source = source
	m.FolderScore = m.Confidence
	m.ListScore = m.Confidence

	if !m.Destination.Resolved() {
		space, id, ok := c.hierarchy.ResolveListID(m.Destination.FolderName, m.Destination.ListName)
		if ok {
			m.Destination.ListID = id
			if m.Destination.SpaceName == "" {
				m.Destination.SpaceName = space
			}
		} else {
			c.logger.Warn("learned destination has no resolvable list",
				zap.String("folder", m.Destination.FolderName),
				zap.String("list", m.Destination.ListName))
		}
	}
	if m.Destination.SpaceName == "" {
		m.Destination.SpaceName = defaultSpaceName
	}

	c.logger.Debug("learned pattern matched",
		zap.String("source", source),
		zap.String("list", m.Destination.ListName),
		zap.Float64("confidence", m.Confidence))
	return m
}

// expandCompounds returns the key plus variants with each compound word
// replaced by its spelled-out forms.
func expandCompounds(key string) []string {
	candidates := []string{key}
	for compound, variants := range compoundVariants {
		if !strings.Contains(key, compound) {
			continue
		}
		for _, v := range variants {
			candidates = append(candidates, strings.ReplaceAll(key, compound, v))
		}
	}
	return candidates
}

// allSegmentsPresent reports whether every "+"-separated segment of a
// stored key occurs contiguously in the normalized text. A multi-word
// segment like "total wine" must appear as that exact phrase.
func allSegmentsPresent(key, normalized string) bool {
	matched := false
	for _, segment := range strings.Split(key, "+") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if !strings.Contains(normalized, segment) {
			return false
		}
		matched = true
	}
	return matched
}

func confOr(conf, fallback float64) float64 {
	if conf > 0 {
		return conf
	}
	return fallback
}

func sortedKeys(m map[string]*patterns.Entry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
