package patterns

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meeting_patterns_learned.json")
	store, err := Open(path)
	require.NoError(t, err)
	return store, path
}

var blockDest = Destination{
	SpaceName:  "Clients",
	FolderName: "Block",
	ListName:   "X",
	ListID:     "123",
}

func TestOpen_MissingFile(t *testing.T) {
	store, _ := tempStore(t)

	doc := store.Snapshot()
	assert.Equal(t, "1.0", doc.Version)
	assert.Empty(t, doc.Patterns.TitlePatterns)
	assert.Equal(t, "pending", doc.Statistics.AccuracyImprovement)
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreCorrupted)
}

func TestRecordCorrection_NewPattern(t *testing.T) {
	store, path := tempStore(t)

	err := store.RecordCorrection(KindTitle, "Chad Drew Rose StandUp", blockDest,
		Example{MeetingTitle: "Chad : Drew : Rose 15 min stand up"})
	require.NoError(t, err)

	// Reload from disk to confirm the round trip.
	reloaded, err := Open(path)
	require.NoError(t, err)

	doc := reloaded.Snapshot()
	entry, ok := doc.Patterns.TitlePatterns["chad drew rose standup"]
	require.True(t, ok, "normalized key missing")
	assert.Equal(t, blockDest, entry.Destination)
	assert.InDelta(t, 0.85, entry.Confidence, 1e-9)
	assert.Equal(t, "manual_correction", entry.LearnedFrom)
	assert.Len(t, entry.Examples, 1)
	assert.Equal(t, 1, doc.Statistics.TotalPatternsLearned)
	assert.Equal(t, 1, doc.Statistics.CorrectionsApplied)
}

func TestRecordCorrection_RepeatedKeyBumpsConfidence(t *testing.T) {
	store, path := tempStore(t)

	require.NoError(t, store.RecordCorrection(KindTitle, "chad drew rose standup", blockDest, Example{}))
	require.NoError(t, store.RecordCorrection(KindTitle, "chad drew rose standup", blockDest, Example{}))

	reloaded, err := Open(path)
	require.NoError(t, err)

	entry := reloaded.Snapshot().Patterns.TitlePatterns["chad drew rose standup"]
	require.NotNil(t, entry)
	assert.InDelta(t, 0.87, entry.Confidence, 1e-9)
	assert.Len(t, entry.Examples, 2)

	stats := reloaded.Stats()
	assert.Equal(t, 1, stats.TotalPatternsLearned)
	assert.Equal(t, 2, stats.CorrectionsApplied)
}

func TestRecordCorrection_ConfidenceCap(t *testing.T) {
	store, _ := tempStore(t)

	for i := 0; i < 12; i++ {
		require.NoError(t, store.RecordCorrection(KindKeyword, "bevmo+holiday", blockDest, Example{}))
	}

	entry := store.Snapshot().Patterns.KeywordPatterns["bevmo holiday"]
	require.NotNil(t, entry)
	assert.LessOrEqual(t, entry.Confidence, 0.98)
	assert.InDelta(t, 0.98, entry.Confidence, 1e-9)
}

func TestRecordCorrection_EmptyKey(t *testing.T) {
	store, _ := tempStore(t)
	err := store.RecordCorrection(KindTitle, "  :: ", blockDest, Example{})
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestRecordCorrection_UnknownKind(t *testing.T) {
	store, _ := tempStore(t)
	err := store.RecordCorrection(Kind("nope"), "key", blockDest, Example{})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestAddAlias(t *testing.T) {
	store, path := tempStore(t)

	err := store.AddAlias(KindAlias, "Go Puff", Destination{FolderName: "Gopuff", ListName: "NYE"})
	require.NoError(t, err)

	reloaded, err := Open(path)
	require.NoError(t, err)

	entry := reloaded.Snapshot().Patterns.ProjectAliases["go puff"]
	require.NotNil(t, entry)
	assert.Equal(t, "Gopuff", entry.Destination.FolderName)
	assert.False(t, entry.Destination.Resolved())
	assert.InDelta(t, 0.75, entry.Confidence, 1e-9)
}

func TestAddAlias_RejectsNonAliasKind(t *testing.T) {
	store, _ := tempStore(t)
	err := store.AddAlias(KindTitle, "bitkey", Destination{})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRecordApplication_Accuracy(t *testing.T) {
	store, _ := tempStore(t)

	require.NoError(t, store.RecordCorrection(KindTitle, "weekly ops sync", blockDest, Example{}))
	require.NoError(t, store.RecordCorrection(KindTitle, "weekly ops sync", blockDest, Example{}))
	require.NoError(t, store.RecordApplication(true))

	stats := store.Stats()
	assert.Equal(t, 1, stats.SuccessfulApplications)
	assert.Equal(t, "50.0%", stats.AccuracyImprovement)
}

func TestSnapshot_IsIsolated(t *testing.T) {
	store, _ := tempStore(t)
	require.NoError(t, store.RecordCorrection(KindTitle, "weekly ops sync", blockDest, Example{}))

	doc := store.Snapshot()
	doc.Patterns.TitlePatterns["weekly ops sync"].Confidence = 0.1
	doc.Patterns.TitlePatterns["injected"] = &Entry{}

	fresh := store.Snapshot()
	assert.InDelta(t, 0.85, fresh.Patterns.TitlePatterns["weekly ops sync"].Confidence, 1e-9)
	assert.NotContains(t, fresh.Patterns.TitlePatterns, "injected")
}
