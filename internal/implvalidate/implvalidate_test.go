package implvalidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamertofabian/maidrunner/internal/types"
)

func TestCheck_MissingArtifact(t *testing.T) {
	expected := types.ExpectedSet{
		File: "pkg/thing.py",
		Artifacts: []types.Artifact{
			{Type: types.KindFunction, Name: "frobnicate"},
		},
	}
	src := types.SourceDescriptor{Path: "pkg/thing.py"}

	diags := Check("pkg/thing.py", expected, src, true, Strict)
	require.Len(t, diags, 1)
	assert.Equal(t, types.KindMissingArtifact, diags[0].Kind)
}

func TestCheck_MatchingArtifactNoDiagnostic(t *testing.T) {
	expected := types.ExpectedSet{
		File: "pkg/thing.py",
		Artifacts: []types.Artifact{
			{Type: types.KindFunction, Name: "frobnicate", Args: []types.Arg{{Name: "x", Type: "int"}}, Returns: "int"},
		},
	}
	src := types.SourceDescriptor{
		Path: "pkg/thing.py",
		Defined: []types.Artifact{
			{Type: types.KindFunction, Name: "frobnicate", Args: []types.Arg{{Name: "x", Type: "int"}}, Returns: "int"},
		},
	}

	diags := Check("pkg/thing.py", expected, src, true, Strict)
	assert.Empty(t, diags)
}

func TestCheck_ArgNameMismatch(t *testing.T) {
	expected := types.ExpectedSet{
		Artifacts: []types.Artifact{
			{Type: types.KindFunction, Name: "frobnicate", Args: []types.Arg{{Name: "x"}}},
		},
	}
	src := types.SourceDescriptor{
		Defined: []types.Artifact{
			{Type: types.KindFunction, Name: "frobnicate", Args: []types.Arg{{Name: "y"}}},
		},
	}

	diags := Check("f.py", expected, src, true, Strict)
	require.Len(t, diags, 1)
	assert.Equal(t, types.KindTypeMismatch, diags[0].Kind)
}

func TestCheck_ReturnTypeMismatch(t *testing.T) {
	// A return-type identity difference means the merge key itself doesn't
	// match: the declared artifact is reported missing (by its full
	// identity), and a TypeMismatch pins down the same-named definition
	// that was found instead.
	expected := types.ExpectedSet{
		Artifacts: []types.Artifact{
			{Type: types.KindFunction, Name: "frobnicate", Returns: "int"},
		},
	}
	src := types.SourceDescriptor{
		Defined: []types.Artifact{
			{Type: types.KindFunction, Name: "frobnicate", Returns: "str"},
		},
	}

	diags := Check("f.py", expected, src, true, Strict)
	require.Len(t, diags, 2)
	assert.Equal(t, types.KindMissingArtifact, diags[0].Kind)
	assert.Equal(t, types.KindTypeMismatch, diags[1].Kind)
}

func TestCheck_StrictUndeclaredArtifact(t *testing.T) {
	expected := types.ExpectedSet{}
	src := types.SourceDescriptor{
		Defined: []types.Artifact{
			{Type: types.KindFunction, Name: "surprise"},
		},
	}

	diags := Check("f.py", expected, src, true, Strict)
	require.Len(t, diags, 1)
	assert.Equal(t, types.KindUndeclaredArtifact, diags[0].Kind)
}

func TestCheck_PermissiveAllowsExtraPublicDefinitions(t *testing.T) {
	expected := types.ExpectedSet{}
	src := types.SourceDescriptor{
		Defined: []types.Artifact{
			{Type: types.KindFunction, Name: "surprise"},
		},
	}

	diags := Check("f.py", expected, src, true, Permissive)
	assert.Empty(t, diags)
}

func TestCheck_PrivateArtifactExempt(t *testing.T) {
	expected := types.ExpectedSet{}
	src := types.SourceDescriptor{
		Defined: []types.Artifact{
			{Type: types.KindFunction, Name: "_helper"},
		},
	}

	diags := Check("f.py", expected, src, true, Strict)
	assert.Empty(t, diags)
}

func TestCheck_TombstonedFileStillPresent(t *testing.T) {
	expected := types.ExpectedSet{Tombstoned: true}

	diags := Check("f.py", expected, types.SourceDescriptor{}, true, Strict)
	require.Len(t, diags, 1)
	assert.Equal(t, types.KindUnexpectedFilePresent, diags[0].Kind)
}

func TestCheck_TombstonedFileAbsent(t *testing.T) {
	expected := types.ExpectedSet{Tombstoned: true}

	diags := Check("f.py", expected, types.SourceDescriptor{}, false, Strict)
	assert.Empty(t, diags)
}

func TestCheck_TypeOnlyArtifactExemptFromUndeclared(t *testing.T) {
	expected := types.ExpectedSet{}
	src := types.SourceDescriptor{
		Defined: []types.Artifact{
			{Type: types.KindTypeAlias, Name: "Surprise"},
		},
	}

	diags := Check("f.ts", expected, src, true, Strict)
	assert.Empty(t, diags)
}
