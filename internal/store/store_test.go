package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	s, diags, err := Load(dir)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Empty(t, s.All())
}

func TestLoadIndexesByFile(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "task-001-auth.manifest.json", `{
		"goal": "add auth",
		"taskType": "create",
		"creatableFiles": ["src/auth.py"]
	}`)

	s, diags, err := Load(dir)
	require.NoError(t, err)
	require.Empty(t, diags)

	ms := s.ByFile("src/auth.py")
	require.Len(t, ms, 1)
	require.Equal(t, "task-001-auth.manifest.json", ms[0].Name)
	require.Equal(t, 1, ms[0].TaskIndex)
}

func TestLoadRejectsDuplicateTaskIndex(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "task-001-a.manifest.json", `{"goal": "a"}`)
	writeManifest(t, dir, "task-001-b.manifest.json", `{"goal": "b"}`)

	_, diags, err := Load(dir)
	require.NoError(t, err)
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Kind == "DuplicateManifest" {
			found = true
		}
	}
	require.True(t, found)
}

func TestLoadRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "not-a-task.manifest.json", `{"goal": "a"}`)

	_, diags, err := Load(dir)
	require.NoError(t, err)
	require.NotEmpty(t, diags)
}

func TestLoadRejectsUnreadableDirectory(t *testing.T) {
	_, _, err := Load("/does/not/exist")
	require.Error(t, err)
}

func TestLoadNormalizesPaths(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "task-002-edit.manifest.json", `{
		"goal": "edit",
		"taskType": "edit",
		"editableFiles": ["./src/a.py"]
	}`)
	s, _, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, s.ByFile("src/a.py"), 1)
}

func TestSupersededSet(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "task-001-snap.manifest.json", `{
		"goal": "snapshot",
		"taskType": "snapshot",
		"editableFiles": ["src/a.py"]
	}`)
	writeManifest(t, dir, "task-002-edit.manifest.json", `{
		"goal": "edit",
		"taskType": "edit",
		"editableFiles": ["src/a.py"],
		"supersedes": ["task-001-snap.manifest.json"]
	}`)
	s, diags, err := Load(dir)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.True(t, s.SupersededSet()["task-001-snap.manifest.json"])
}
