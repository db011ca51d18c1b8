// pkg/state/store_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: real filesystem (t.TempDir)
// PURPOSE: Test state persistence, corruption handling and atomic replacement

package state_test

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/macsetup/pkg/errors"
	"github.com/arthur-debert/macsetup/pkg/filesystem"
	"github.com/arthur-debert/macsetup/pkg/state"
	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *types.ExecutionState {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	st := types.NewExecutionState("run-1", "work", now)
	st.MarkCompleted("formula:git")
	st.MarkCompleted("cask:iterm2")
	st.MarkFailed(types.FailureRecord{
		Identifier:  "formula:nonexistent",
		ErrorKind:   "permanent",
		Message:     "No available formula",
		Remediation: "Check formula name with: brew search nonexistent",
		Timestamp:   now,
		Attempts:    1,
	})
	return st
}

func TestLoad_AbsentFile(t *testing.T) {
	store := state.New(t.TempDir(), state.Options{})

	st, err := store.Load()
	assert.NoError(t, err)
	assert.Nil(t, st)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := state.New(dir, state.Options{})
	assert.Equal(t, filepath.Join(dir, ".state.json"), store.Path())

	original := sampleState()
	require.NoError(t, store.Save(original))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, original.RunID, loaded.RunID)
	assert.Equal(t, original.ProfileName, loaded.ProfileName)
	assert.Equal(t, []types.Identifier{"cask:iterm2", "formula:git"}, loaded.Completed)
	assert.Equal(t, original.FailedItems, loaded.FailedItems)
	assert.Equal(t, types.RunInProgress, loaded.Status)
	assert.True(t, original.StartedAt.Equal(loaded.StartedAt))
}

func TestSave_FileFormat(t *testing.T) {
	dir := t.TempDir()
	store := state.New(dir, state.Options{})
	require.NoError(t, store.Save(sampleState()))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"run_id", "started_at", "updated_at", "profile_name",
		"completed_identifiers", "failed_items", "status"} {
		assert.Contains(t, raw, key)
	}

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestLoad_CorruptFileIsTreatedAsAbsent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{this is not json"},
		{"truncated", `{"run_id": "r", "profile_name": "w", "status": "in_pro`},
		{"missing run id", `{"profile_name": "w", "status": "in_progress"}`},
		{"missing profile", `{"run_id": "r", "status": "in_progress"}`},
		{"unknown status", `{"run_id": "r", "profile_name": "w", "status": "exploded"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, ".state.json"), []byte(tt.content), 0644))

			st, err := state.New(dir, state.Options{}).Load()
			assert.NoError(t, err)
			assert.Nil(t, st)
		})
	}
}

func TestLoad_NormalizesCompletedSet(t *testing.T) {
	dir := t.TempDir()
	content := `{
  "run_id": "r", "profile_name": "w", "status": "interrupted",
  "completed_identifiers": ["formula:b", "formula:a", "formula:b"],
  "failed_items": [{"identifier": "formula:a", "error_kind": "transient", "message": "x"}]
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".state.json"), []byte(content), 0644))

	st, err := state.New(dir, state.Options{}).Load()
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, []types.Identifier{"formula:a", "formula:b"}, st.Completed)
	assert.Empty(t, st.FailedItems, "a completed identifier cannot also be failed")
}

func TestSave_CrashBeforeRenameKeepsPreviousState(t *testing.T) {
	dir := t.TempDir()
	good := state.New(dir, state.Options{})
	previous := sampleState()
	require.NoError(t, good.Save(previous))

	diskFull := stderrors.New("no space left on device")
	for _, op := range []filesystem.Op{filesystem.OpWrite, filesystem.OpSync, filesystem.OpRename, filesystem.OpCreateTemp} {
		t.Run(string(op), func(t *testing.T) {
			faulty := filesystem.NewFaulty(filesystem.NewOS(), diskFull, op)
			store := state.New(dir, state.Options{FS: faulty})

			next := previous.Clone()
			next.MarkCompleted("formula:ripgrep")
			err := store.Save(next)

			require.Error(t, err)
			assert.True(t, errors.IsFatal(err), "save failures are fatal, got %v", err)

			loaded, loadErr := good.Load()
			require.NoError(t, loadErr)
			require.NotNil(t, loaded)
			assert.False(t, loaded.IsCompleted("formula:ripgrep"), "old state must survive")
			assert.Equal(t, previous.Completed, loaded.Completed)

			entries, readErr := os.ReadDir(dir)
			require.NoError(t, readErr)
			assert.Len(t, entries, 1, "temporary files are cleaned up")
		})
	}
}

func TestSave_CreatesConfigDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not", "yet")
	store := state.New(dir, state.Options{})
	require.NoError(t, store.Save(sampleState()))
	assert.FileExists(t, store.Path())
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	store := state.New(dir, state.Options{})

	assert.NoError(t, store.Clear(), "clearing a missing file is a no-op")

	require.NoError(t, store.Save(sampleState()))
	require.NoError(t, store.Clear())
	assert.NoFileExists(t, store.Path())
}
