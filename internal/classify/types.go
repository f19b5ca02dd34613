package classify

import "github.com/gutfeelinglabs/taskpipe/internal/patterns"

// Match is a classification result: where the work should land, how sure
// the classifier is, and which strategy produced it.
type Match struct {
	Destination patterns.Destination
	Confidence  float64
	Source      string

	// FolderScore and ListScore are populated by the fuzzy fallback and
	// carry the per-level scores behind Confidence.
	FolderScore float64
	ListScore   float64
}

// Strength buckets a task-level match by how much weight it deserves.
type Strength string

const (
	StrengthStrong Strength = "strong"
	StrengthMedium Strength = "medium"
	StrengthWeak   Strength = "weak"
)

// StrengthFor maps a confidence value to a signal strength bucket.
func StrengthFor(confidence float64) Strength {
	switch {
	case confidence >= 0.85:
		return StrengthStrong
	case confidence >= 0.7:
		return StrengthMedium
	default:
		return StrengthWeak
	}
}

// List is one assignable list in the workspace hierarchy.
type List struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Folder groups lists under a space.
type Folder struct {
	Name  string `json:"name"`
	Lists []List `json:"lists"`
}

// Space is the top level of the workspace hierarchy.
type Space struct {
	Name    string   `json:"name"`
	Folders []Folder `json:"folders"`
}

// Hierarchy is a snapshot of the tracker workspace structure, supplied by
// the caller (typically loaded from a cached JSON export).
type Hierarchy struct {
	Spaces []Space `json:"spaces"`
}

// ResolveListID looks up the list ID for a folder/list name pair. It
// returns the owning space name alongside the ID so callers can complete
// a partial destination.
func (h Hierarchy) ResolveListID(folderName, listName string) (spaceName, listID string, ok bool) {
	for _, space := range h.Spaces {
		for _, folder := range space.Folders {
			if folder.Name != folderName {
				continue
			}
			for _, list := range folder.Lists {
				if list.Name == listName {
					return space.Name, list.ID, true
				}
			}
		}
	}
	return "", "", false
}
