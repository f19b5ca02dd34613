// Package ledger persists the record of which meetings have already been
// turned into tasks. It is the pipeline's idempotency boundary: a meeting
// whose document or email ID appears in the ledger is skipped on
// subsequent runs. The file is read fully on open and rewritten atomically
// on every append, under the same single-writer assumption as the pattern
// store.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrLedgerCorrupted indicates the ledger file exists but cannot be
// parsed. It is surfaced as a hard error: reprocessing every meeting
// because a corrupt ledger was silently reset would duplicate tasks.
var ErrLedgerCorrupted = errors.New("processed-meetings ledger corrupted")

const (
	ledgerVersion   = "1.0"
	timestampLayout = "2006-01-02 15:04:05"
)

// CreatedTask identifies one task created from a meeting.
type CreatedTask struct {
	TaskID   string `json:"task_id"`
	TaskName string `json:"task_name"`
	ListID   string `json:"list_id"`
}

// Record is one processed meeting.
type Record struct {
	DocID         string        `json:"doc_id"`
	MeetingTitle  string        `json:"meeting_title"`
	EmailID       string        `json:"email_id"`
	ProcessedDate string        `json:"processed_date"`
	TasksCreated  []CreatedTask `json:"tasks_created"`
}

type document struct {
	Version     string   `json:"version"`
	LastUpdated string   `json:"last_updated"`
	Meetings    []Record `json:"meetings"`
}

// Ledger is the persisted processed-meetings history.
type Ledger struct {
	mu   sync.RWMutex
	path string
	now  func() time.Time
	doc  *document
}

// Open loads the ledger at path. A missing file yields an empty ledger;
// an unparseable file is a hard ErrLedgerCorrupted.
func Open(path string) (*Ledger, error) {
	l := &Ledger{
		path: path,
		now:  time.Now,
		doc:  &document{Version: ledgerVersion},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerCorrupted, err)
	}
	l.doc = &doc
	return l, nil
}

// Lookup returns the record for a meeting matched by document ID or email
// ID. Either argument may be empty; an empty argument never matches.
func (l *Ledger) Lookup(docID, emailID string) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, m := range l.doc.Meetings {
		if docID != "" && m.DocID == docID {
			return m, true
		}
		if emailID != "" && m.EmailID == emailID {
			return m, true
		}
	}
	return Record{}, false
}

// Append records a processed meeting and persists immediately.
func (l *Ledger) Append(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec.ProcessedDate == "" {
		rec.ProcessedDate = l.now().Format(timestampLayout)
	}
	l.doc.Meetings = append(l.doc.Meetings, rec)
	return l.persist()
}

// Records returns a copy of all processed-meeting records, oldest first.
func (l *Ledger) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Record(nil), l.doc.Meetings...)
}

func (l *Ledger) persist() error {
	l.doc.LastUpdated = l.now().Format(timestampLayout)

	data, err := json.MarshalIndent(l.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename ledger: %w", err)
	}
	return nil
}
