package merge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mamertofabian/maidrunner/internal/types"
)

func manifest(taskType types.TaskType, file string, status types.ArtifactStatus, contains []types.Artifact, cmds [][]string) *types.Manifest {
	return &types.Manifest{
		TaskType: taskType,
		ExpectedArtifacts: &types.ExpectedArtifacts{
			File:     file,
			Contains: contains,
			Status:   status,
		},
		ValidationCommands: cmds,
	}
}

func TestMergeFoldsAcrossChain(t *testing.T) {
	snap := manifest(types.TaskSnapshot, "src/a.py", "", []types.Artifact{
		{Type: types.KindFunction, Name: "f", Returns: "bool"},
	}, nil)
	edit := manifest(types.TaskEdit, "src/a.py", "", []types.Artifact{
		{Type: types.KindMethod, Class: "C", Name: "m", Returns: "int"},
	}, [][]string{{"pytest", "tests/test_a.py"}})

	got := Merge([]*types.Manifest{snap, edit}, "src/a.py")
	require.False(t, got.Tombstoned)
	require.Len(t, got.Artifacts, 2)
	require.Len(t, got.ValidationCommands, 1)
}

func TestMergeLaterOverwritesSameKey(t *testing.T) {
	first := manifest(types.TaskSnapshot, "src/a.py", "", []types.Artifact{
		{Type: types.KindFunction, Name: "f", Args: []types.Arg{{Name: "x"}}},
	}, nil)
	second := manifest(types.TaskEdit, "src/a.py", "", []types.Artifact{
		{Type: types.KindFunction, Name: "f", Args: []types.Arg{{Name: "x"}, {Name: "y"}}},
	}, nil)

	got := Merge([]*types.Manifest{first, second}, "src/a.py")
	require.Len(t, got.Artifacts, 1)
	require.Len(t, got.Artifacts[0].Args, 2)
}

func TestMergeTombstoneThenRecreate(t *testing.T) {
	create := manifest(types.TaskCreate, "src/old.py", "", []types.Artifact{
		{Type: types.KindFunction, Name: "f"},
	}, nil)
	deletion := manifest(types.TaskRefactor, "src/old.py", types.StatusAbsent, nil, nil)
	recreate := manifest(types.TaskCreate, "src/old.py", "", []types.Artifact{
		{Type: types.KindFunction, Name: "g"},
	}, nil)

	got := Merge([]*types.Manifest{create, deletion}, "src/old.py")
	require.True(t, got.Tombstoned)
	require.Empty(t, got.Artifacts)

	got2 := Merge([]*types.Manifest{create, deletion, recreate}, "src/old.py")
	require.False(t, got2.Tombstoned)
	require.Len(t, got2.Artifacts, 1)
	require.Equal(t, "g", got2.Artifacts[0].Name)
}

func TestMergeDedupsValidationCommandsByExactVector(t *testing.T) {
	a := manifest(types.TaskEdit, "src/a.py", "", nil, [][]string{{"pytest", "tests/a.py"}})
	b := manifest(types.TaskEdit, "src/a.py", "", nil, [][]string{{"pytest", "tests/a.py"}, {"pytest", "-k", "x"}})

	got := Merge([]*types.Manifest{a, b}, "src/a.py")
	require.Len(t, got.ValidationCommands, 2)
}

func TestMergeIgnoresSnapshotValidationCommands(t *testing.T) {
	snap := manifest(types.TaskSnapshot, "src/a.py", "", nil, [][]string{{"pytest", "tests/a.py"}})
	got := Merge([]*types.Manifest{snap}, "src/a.py")
	require.Empty(t, got.ValidationCommands)
}
