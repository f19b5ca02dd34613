package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMeeting_JSONExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meeting.json")
	content := `{"doc_id":"doc-1","email_id":"email-1","title":"BevMo Weekly","content":"notes here"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	m, err := readMeeting(path)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", m.DocID)
	assert.Equal(t, "BevMo Weekly", m.Title)
	assert.Equal(t, "notes here", m.Content)
}

func TestReadMeeting_PlainTextFallsBackToFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standup-notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("raw meeting notes"), 0600))

	m, err := readMeeting(path)
	require.NoError(t, err)
	assert.Equal(t, "standup-notes", m.Title)
	assert.Equal(t, "raw meeting notes", m.Content)
}

func TestReadMeeting_EmptyContentRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("   \n"), 0600))

	_, err := readMeeting(path)
	assert.Error(t, err)
}

func TestLoadHierarchy_MissingFileIsEmpty(t *testing.T) {
	h, err := loadHierarchy(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, h.Spaces)
}

func TestLoadTaskSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	content := `{"list-1":[{"id":"t1","name":"Update the budget"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	snapshot, err := loadTaskSnapshot(path)
	require.NoError(t, err)
	require.Len(t, snapshot["list-1"], 1)
	assert.Equal(t, "t1", snapshot["list-1"][0].ID)

	// No snapshot flag means an empty map, not an error.
	snapshot, err = loadTaskSnapshot("")
	require.NoError(t, err)
	assert.Empty(t, snapshot)
}
