package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitignoreParser_SimpleAndNegatedPatterns(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("*.log")
	gp.AddPattern("!important.log")

	assert.True(t, gp.ShouldIgnore("debug.log", false))
	assert.False(t, gp.ShouldIgnore("important.log", false))
	assert.False(t, gp.ShouldIgnore("main.go", false))
}

func TestGitignoreParser_DirectoryPatternMatchesNestedFiles(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("build/")

	assert.True(t, gp.ShouldIgnore("build", true))
	assert.True(t, gp.ShouldIgnore("build/output.bin", false))
	assert.False(t, gp.ShouldIgnore("rebuild.go", false))
}

func TestGitignoreParser_AbsolutePatternAnchorsAtRoot(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("/dist")

	assert.True(t, gp.ShouldIgnore("dist", false))
	assert.False(t, gp.ShouldIgnore("sub/dist", false))
}

func TestGitignoreParser_LaterPatternsOverrideEarlier(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("*.tmp")
	gp.AddPattern("!keep.tmp")
	gp.AddPattern("keep.tmp")

	assert.True(t, gp.ShouldIgnore("keep.tmp", false), "last matching pattern wins")
}

func TestLoadGitignore_MissingFileIsNotAnError(t *testing.T) {
	gp := NewGitignoreParser()
	dir := t.TempDir()
	err := gp.LoadGitignore(dir)
	require.NoError(t, err)
	assert.False(t, gp.ShouldIgnore("anything.go", false))
}

func TestLoadGitignore_ParsesFileSkippingCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	content := "# comment\n\n*.pyc\n!keep.pyc\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0o644))

	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(dir))

	assert.True(t, gp.ShouldIgnore("module.pyc", false))
	assert.False(t, gp.ShouldIgnore("keep.pyc", false))
}
