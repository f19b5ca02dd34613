package classify

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/gutfeelinglabs/taskpipe/internal/patterns"
)

const (
	// contentScanLimit bounds how much meeting content feeds keyword
	// extraction for the fuzzy fallback.
	contentScanLimit = 5000

	// frequentWordLimit caps how many high-frequency content words join
	// the keyword set.
	frequentWordLimit = 20

	// minKeywordLength filters short content words out of frequency
	// counting.
	minKeywordLength = 3

	// substringScore is awarded when a keyword and a hierarchy name
	// contain one another, and for abbreviation hits.
	substringScore = 0.9

	folderWeight = 0.7
	listWeight   = 0.3
)

// fuzzyStopwords are words too generic to identify a project.
var fuzzyStopwords = map[string]struct{}{
	"meeting": {}, "sync": {}, "standup": {}, "team": {}, "recurring": {},
	"notes": {}, "the": {}, "a": {}, "an": {},
	"fwd": {}, "oct": {}, "nov": {}, "dec": {}, "jan": {}, "feb": {},
	"mar": {}, "apr": {}, "may": {}, "jun": {}, "jul": {}, "aug": {}, "sep": {},
	"2024": {}, "2025": {}, "2026": {},
	"will": {}, "would": {}, "could": {}, "should": {},
	"have": {}, "has": {}, "had": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"with": {}, "from": {}, "about": {}, "into": {}, "through": {},
	"during": {}, "before": {}, "after": {}, "above": {}, "below": {},
	"between": {}, "under": {}, "again": {},
	"further": {}, "then": {}, "once": {}, "here": {}, "there": {},
	"when": {}, "where": {}, "why": {}, "how": {},
	"all": {}, "each": {}, "other": {}, "some": {}, "such": {}, "only": {},
	"own": {}, "same": {}, "than": {}, "too": {},
	"very": {}, "can": {}, "just": {}, "don": {}, "now": {},
	"discussion": {}, "suggested": {},
}

// abbreviations maps short codes used in tracker list names to the
// spelled-out keywords that should match them.
var abbreviations = map[string][]string{
	"rr":  {"rick ross", "rick", "ross"},
	"wk":  {"wiz khalifa", "wiz", "khalifa"},
	"nye": {"new year", "newyear", "new years"},
	"ctv": {"connected tv", "ctv"},
	"mmb": {"mike", "honey"},
}

var (
	wordRe       = regexp.MustCompile(`\b\w+\b`)
	properNounRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`)
)

// fuzzyMatch scores every folder/list pair in the hierarchy against
// keywords drawn from the meeting title and content, and accepts the best
// pair when its combined score clears the threshold.
func (c *Classifier) fuzzyMatch(title, content string) (Match, bool) {
	keywords := extractKeywords(title, content)
	if len(keywords) == 0 {
		return Match{}, false
	}

	var best Match
	for _, space := range c.hierarchy.Spaces {
		for _, folder := range space.Folders {
			folderScore := c.scoreFolder(keywords, folder.Name)

			for _, list := range folder.Lists {
				listScore := c.scoreList(keywords, list.Name)
				combined := folderScore*folderWeight + listScore*listWeight

				if combined > best.Confidence {
					best = Match{
						Destination: destinationFor(space, folder, list),
						Confidence:  combined,
						Source:      "fuzzy_match",
						FolderScore: folderScore,
						ListScore:   listScore,
					}
				}
			}
		}
	}

	if best.Confidence < c.cfg.FuzzyThreshold {
		c.logger.Debug("fuzzy match below threshold",
			zap.Float64("best", best.Confidence),
			zap.Float64("threshold", c.cfg.FuzzyThreshold))
		return Match{}, false
	}
	return best, true
}

func (c *Classifier) scoreFolder(keywords []string, folderName string) float64 {
	lowerName := strings.ToLower(folderName)

	score := 0.0
	for _, word := range keywords {
		if strings.Contains(lowerName, word) || strings.Contains(word, lowerName) {
			score = maxFloat(score, substringScore)
		} else {
			score = maxFloat(score, c.sim(word, folderName))
		}
	}
	return score
}

func (c *Classifier) scoreList(keywords []string, listName string) float64 {
	lowerName := strings.ToLower(listName)

	score := 0.0
	for _, word := range keywords {
		if s := abbreviationScore(word, lowerName); s > 0 {
			score = maxFloat(score, s)
		} else if strings.Contains(lowerName, word) || strings.Contains(word, lowerName) {
			score = maxFloat(score, substringScore)
		} else {
			score = maxFloat(score, c.sim(word, listName))
		}
	}
	return score
}

// abbreviationScore matches a keyword against short codes appearing in a
// list name ("rick ross" against "RR Q1") and the reverse.
func abbreviationScore(keyword, lowerName string) float64 {
	for abbrev, expansions := range abbreviations {
		if strings.Contains(lowerName, abbrev) {
			for _, expansion := range expansions {
				if strings.Contains(keyword, expansion) || strings.Contains(expansion, keyword) {
					return substringScore
				}
			}
		}
		if abbrev == keyword {
			for _, expansion := range expansions {
				if strings.Contains(lowerName, expansion) {
					return substringScore
				}
			}
		}
	}
	return 0.0
}

// extractKeywords builds the ordered, deduplicated keyword list: title
// words first, then proper nouns from the content head, then the most
// frequent remaining content words.
func extractKeywords(title, content string) []string {
	var ordered []string

	for _, w := range wordRe.FindAllString(title, -1) {
		ordered = append(ordered, strings.ToLower(w))
	}

	if len(content) > contentScanLimit {
		content = content[:contentScanLimit]
	}

	for _, pn := range properNounRe.FindAllString(content, -1) {
		ordered = append(ordered, strings.ToLower(pn))
	}

	ordered = append(ordered, frequentWords(content)...)

	seen := make(map[string]struct{}, len(ordered))
	keywords := ordered[:0]
	for _, w := range ordered {
		if _, dup := seen[w]; dup {
			continue
		}
		if _, stop := fuzzyStopwords[w]; stop {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
	}
	return keywords
}

// frequentWords returns the most frequent meaningful words in the content,
// highest count first, ties broken by first appearance.
func frequentWords(content string) []string {
	counts := make(map[string]int)
	var order []string

	for _, w := range wordRe.FindAllString(strings.ToLower(content), -1) {
		if len(w) <= minKeywordLength {
			continue
		}
		if _, stop := fuzzyStopwords[w]; stop {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > frequentWordLimit {
		order = order[:frequentWordLimit]
	}
	return order
}

func destinationFor(space Space, folder Folder, list List) patterns.Destination {
	return patterns.Destination{
		SpaceName:  space.Name,
		FolderName: folder.Name,
		ListName:   list.Name,
		ListID:     list.ID,
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
