package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKDL_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	assert.Equal(t, ".maid-cache", cfg.Cache.Dir)
	assert.Equal(t, 3, cfg.Behavioural.ImportFollowDepth)
}

func TestLoadKDL_ParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
project {
  name "widgetizer"
}
cache {
  dir ".cache-custom"
  version "7"
}
behavioural {
  import_follow_depth 5
}
performance {
  parallel_file_workers 2
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".maid.kdl"), []byte(content), 0o644))

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	assert.Equal(t, "widgetizer", cfg.Project.Name)
	assert.Equal(t, ".cache-custom", cfg.Cache.Dir)
	assert.Equal(t, "7", cfg.Cache.Version)
	assert.Equal(t, 5, cfg.Behavioural.ImportFollowDepth)
	assert.Equal(t, 2, cfg.Performance.ParallelFileWorkers)
}

func TestValidateAndSetDefaults_FillsWorkerCount(t *testing.T) {
	cfg := Default()
	require.NoError(t, ValidateConfig(cfg))
	assert.GreaterOrEqual(t, cfg.Performance.ParallelFileWorkers, 1)
}

func TestValidateAndSetDefaults_RejectsEmptyRoot(t *testing.T) {
	cfg := Default()
	cfg.Project.Root = ""
	err := ValidateConfig(cfg)
	assert.Error(t, err)
}

func TestValidateAndSetDefaults_RejectsNegativeDepth(t *testing.T) {
	cfg := Default()
	cfg.Behavioural.ImportFollowDepth = -1
	err := ValidateConfig(cfg)
	assert.Error(t, err)
}
