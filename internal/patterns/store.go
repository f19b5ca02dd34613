// Package patterns persists the learned routing-pattern database. The
// full document is read into memory when the store opens, mutated only by
// explicit correction/alias operations, and rewritten atomically after
// every mutation. A single process instance at a time is assumed; there is
// no lock file guarding concurrent runs.
package patterns

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gutfeelinglabs/taskpipe/internal/textutil"
)

// Errors for pattern store operations.
var (
	ErrStoreCorrupted = errors.New("pattern store file corrupted")
	ErrEmptyKey       = errors.New("pattern key cannot be empty")
	ErrUnknownKind    = errors.New("unknown pattern kind")
)

const (
	// newPatternConfidence is the starting confidence for a learned
	// pattern.
	newPatternConfidence = 0.85

	// aliasConfidence is the confidence a project-alias match reports.
	aliasConfidence = 0.75

	// confidenceBump is added per confirming correction.
	confidenceBump = 0.02

	// maxConfidence caps accumulated confidence; no pattern is ever
	// trusted unconditionally.
	maxConfidence = 0.98

	storeVersion = "1.0"
	dateLayout   = "2006-01-02"
)

// Store is the persisted pattern database.
type Store struct {
	mu   sync.RWMutex
	path string
	now  func() time.Time
	doc  *Document
}

// Open loads the pattern store at path. A missing file yields a fresh
// empty store; an unreadable or invalid file is a hard error so that a
// corrupt database is never silently reinitialized.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		now:  time.Now,
		doc:  emptyDocument(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read pattern store: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreCorrupted, err)
	}
	initMaps(&doc)
	s.doc = &doc
	return s, nil
}

func emptyDocument() *Document {
	doc := &Document{
		Version:     storeVersion,
		LastUpdated: time.Now().Format(dateLayout),
		Statistics:  Statistics{AccuracyImprovement: "pending"},
	}
	initMaps(doc)
	return doc
}

// initMaps ensures every pattern map exists after loads of older files.
func initMaps(doc *Document) {
	if doc.Patterns.TitlePatterns == nil {
		doc.Patterns.TitlePatterns = make(map[string]*Entry)
	}
	if doc.Patterns.KeywordPatterns == nil {
		doc.Patterns.KeywordPatterns = make(map[string]*Entry)
	}
	if doc.Patterns.ParticipantPatterns == nil {
		doc.Patterns.ParticipantPatterns = make(map[string]*Entry)
	}
	if doc.Patterns.ProjectAliases == nil {
		doc.Patterns.ProjectAliases = make(map[string]*Entry)
	}
	if doc.Patterns.TaskLevel.ProjectAliases == nil {
		doc.Patterns.TaskLevel.ProjectAliases = make(map[string]*Entry)
	}
	if doc.Patterns.TaskLevel.KeywordPatterns == nil {
		doc.Patterns.TaskLevel.KeywordPatterns = make(map[string]*Entry)
	}
	if doc.Patterns.TaskLevel.PersonPatterns == nil {
		doc.Patterns.TaskLevel.PersonPatterns = make(map[string]*Entry)
	}
}

// Snapshot returns a deep copy of the current document for a
// classification pass.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDocument(s.doc)
}

// Stats returns the current usage statistics.
func (s *Store) Stats() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Statistics
}

// RecordCorrection learns from an explicit routing correction. A new key
// starts at confidence 0.85; a repeated key gains an example and a +0.02
// confidence bump, capped at 0.98. Confidence is never lowered. The store
// is persisted before returning.
func (s *Store) RecordCorrection(kind Kind, key string, dest Destination, example Example) error {
	key = textutil.Normalize(key)
	if key == "" {
		return ErrEmptyKey
	}
	if example.Date == "" {
		example.Date = s.now().Format(dateLayout)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, err := s.bucket(kind)
	if err != nil {
		return err
	}

	if existing, ok := bucket[key]; ok {
		existing.Examples = append(existing.Examples, example)
		current := existing.Confidence
		if current == 0 {
			current = newPatternConfidence
		}
		existing.Confidence = min(maxConfidence, current+confidenceBump)
	} else {
		bucket[key] = &Entry{
			Destination: dest,
			Confidence:  newPatternConfidence,
			LearnedFrom: "manual_correction",
			Examples:    []Example{example},
		}
		s.doc.Statistics.TotalPatternsLearned++
	}

	s.doc.Statistics.CorrectionsApplied++
	return s.persist()
}

// AddAlias registers a project alias mapping a phrase to a destination.
// The list ID may be left empty; the classifier surfaces alias matches
// with an unresolved ID for the caller to look up.
func (s *Store) AddAlias(kind Kind, alias string, dest Destination) error {
	alias = textutil.Normalize(alias)
	if alias == "" {
		return ErrEmptyKey
	}
	if kind != KindAlias && kind != KindTaskAlias {
		return fmt.Errorf("%w: %q is not an alias kind", ErrUnknownKind, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, err := s.bucket(kind)
	if err != nil {
		return err
	}
	bucket[alias] = &Entry{
		Destination: dest,
		Confidence:  aliasConfidence,
	}
	return s.persist()
}

// RecordApplication updates run statistics after a classification pass
// and recomputes the derived accuracy figure.
func (s *Store) RecordApplication(success bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if success {
		s.doc.Statistics.SuccessfulApplications++
	}
	if total := s.doc.Statistics.CorrectionsApplied; total > 0 {
		accuracy := float64(s.doc.Statistics.SuccessfulApplications) / float64(total) * 100
		s.doc.Statistics.AccuracyImprovement = fmt.Sprintf("%.1f%%", accuracy)
	}
	return s.persist()
}

func (s *Store) bucket(kind Kind) (map[string]*Entry, error) {
	switch kind {
	case KindTitle:
		return s.doc.Patterns.TitlePatterns, nil
	case KindKeyword:
		return s.doc.Patterns.KeywordPatterns, nil
	case KindParticipant:
		return s.doc.Patterns.ParticipantPatterns, nil
	case KindAlias:
		return s.doc.Patterns.ProjectAliases, nil
	case KindTaskAlias:
		return s.doc.Patterns.TaskLevel.ProjectAliases, nil
	case KindTaskKeyword:
		return s.doc.Patterns.TaskLevel.KeywordPatterns, nil
	case KindTaskPerson:
		return s.doc.Patterns.TaskLevel.PersonPatterns, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// persist writes the document atomically. Callers hold the write lock.
func (s *Store) persist() error {
	s.doc.LastUpdated = s.now().Format(dateLayout)

	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pattern store: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write pattern store: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename pattern store: %w", err)
	}
	return nil
}

func cloneDocument(doc *Document) Document {
	out := *doc
	out.Patterns = PatternSet{
		TitlePatterns:       cloneBucket(doc.Patterns.TitlePatterns),
		KeywordPatterns:     cloneBucket(doc.Patterns.KeywordPatterns),
		ParticipantPatterns: cloneBucket(doc.Patterns.ParticipantPatterns),
		ProjectAliases:      cloneBucket(doc.Patterns.ProjectAliases),
		TaskLevel: TaskPatterns{
			ProjectAliases:  cloneBucket(doc.Patterns.TaskLevel.ProjectAliases),
			KeywordPatterns: cloneBucket(doc.Patterns.TaskLevel.KeywordPatterns),
			PersonPatterns:  cloneBucket(doc.Patterns.TaskLevel.PersonPatterns),
		},
	}
	return out
}

func cloneBucket(bucket map[string]*Entry) map[string]*Entry {
	out := make(map[string]*Entry, len(bucket))
	for key, entry := range bucket {
		clone := *entry
		clone.ContextRequired = append([]string(nil), entry.ContextRequired...)
		clone.LikelyProjects = append([]ProjectOdds(nil), entry.LikelyProjects...)
		clone.Examples = append([]Example(nil), entry.Examples...)
		out[key] = &clone
	}
	return out
}
