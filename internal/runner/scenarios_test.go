package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamertofabian/maidrunner/internal/langadapter"
	"github.com/mamertofabian/maidrunner/internal/types"
)

// This file exercises the six concrete scenarios walked through as worked
// examples: a missing-function arity mismatch, an undeclared public symbol
// in both strict and permissive mode, a snapshot superseded by a later
// edit, a behavioural coverage gap, and a deletion manifest.

func TestScenario_DeclaredFunctionArityMismatch(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "task-001-auth.manifest.json", `{
		"goal": "add authentication",
		"taskType": "create",
		"creatableFiles": ["src/auth.py"],
		"expectedArtifacts": {"file": "src/auth.py", "contains": [
			{"type": "function", "name": "authenticate",
			 "args": [{"name": "username", "type": "str"}, {"name": "password", "type": "str"}],
			 "returns": "bool"}
		]}
	}`)

	adapter := &stubAdapter{ext: ".py", sources: map[string]types.SourceDescriptor{
		"src/auth.py": {Path: "src/auth.py", Defined: []types.Artifact{
			{Type: types.KindFunction, Name: "authenticate", Args: []types.Arg{{Name: "username", Type: "str"}}},
		}},
	}}
	reg := langadapter.NewRegistry(adapter)
	fs := &fakeFS{files: map[string][]byte{"src/auth.py": []byte("def authenticate(username): ...")}}

	report, err := Run(context.Background(), baseConfig(dir), dir, reg, fs, nil)
	require.NoError(t, err)

	var sawMissing, sawArityMismatch bool
	for _, d := range report.Diagnostics {
		switch d.Kind {
		case types.KindMissingArtifact:
			sawMissing = true
		case types.KindTypeMismatch:
			sawArityMismatch = true
		}
	}
	assert.True(t, sawMissing, "expected MissingArtifact referencing the declared return type, got %+v", report.Diagnostics)
	assert.True(t, sawArityMismatch, "expected TypeMismatch for the parameter-count discrepancy, got %+v", report.Diagnostics)
	assert.Equal(t, 1, report.ExitCode)
}

func TestScenario_UndeclaredPublicSymbolStrict(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "task-001-auth.manifest.json", `{
		"goal": "add auth service",
		"taskType": "create",
		"creatableFiles": ["auth.py"],
		"expectedArtifacts": {"file": "auth.py", "contains": [{"type": "class", "name": "AuthService"}]}
	}`)

	adapter := &stubAdapter{ext: ".py", sources: map[string]types.SourceDescriptor{
		"auth.py": {Path: "auth.py", Defined: []types.Artifact{
			{Type: types.KindClass, Name: "AuthService"},
			{Type: types.KindFunction, Name: "logout"},
		}},
	}}
	reg := langadapter.NewRegistry(adapter)
	fs := &fakeFS{files: map[string][]byte{"auth.py": []byte("class AuthService: ...\ndef logout(): ...")}}

	report, err := Run(context.Background(), baseConfig(dir), dir, reg, fs, nil)
	require.NoError(t, err)

	var count int
	for _, d := range report.Diagnostics {
		if d.Kind == types.KindUndeclaredArtifact {
			count++
		}
	}
	assert.Equal(t, 1, count, "exactly one UndeclaredArtifact for logout, got %+v", report.Diagnostics)
}

func TestScenario_PermissiveAcceptance(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "task-001-auth.manifest.json", `{
		"goal": "touch up auth service",
		"taskType": "edit",
		"editableFiles": ["auth.py"],
		"validationCommand": ["pytest", "test_auth.py"],
		"expectedArtifacts": {"file": "auth.py", "contains": [{"type": "class", "name": "AuthService"}]}
	}`)

	adapter := &stubAdapter{ext: ".py", sources: map[string]types.SourceDescriptor{
		"auth.py": {Path: "auth.py", Defined: []types.Artifact{
			{Type: types.KindClass, Name: "AuthService"},
			{Type: types.KindFunction, Name: "logout"},
		}},
	}, tests: map[string]types.SourceDescriptor{
		"test_auth.py": {Path: "test_auth.py", Usages: []types.UsageRef{{Kind: types.UsageInstantiate, Name: "AuthService"}}},
	}}
	reg := langadapter.NewRegistry(adapter)
	fs := &fakeFS{files: map[string][]byte{
		"auth.py":      []byte("class AuthService: ...\ndef logout(): ..."),
		"test_auth.py": []byte("def test_x(): AuthService()"),
	}}

	report, err := Run(context.Background(), baseConfig(dir), dir, reg, fs, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.ExitCode, "editable file should tolerate an extra public definition, got %+v", report.Diagnostics)
}

func TestScenario_SnapshotSupersededByLaterEdit(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "task-042-baseline.manifest.json", `{
		"goal": "establish a.py baseline",
		"taskType": "snapshot",
		"expectedArtifacts": {"file": "a.py", "contains": [{"type": "function", "name": "run"}]}
	}`)
	writeManifest(t, dir, "task-050-extend.manifest.json", `{
		"goal": "add a helper method",
		"taskType": "edit",
		"editableFiles": ["a.py"],
		"supersedes": ["task-042-baseline.manifest.json"],
		"validationCommand": ["pytest", "test_a.py"],
		"expectedArtifacts": {"file": "a.py", "contains": [
			{"type": "function", "name": "run"},
			{"type": "function", "name": "helper"}
		]}
	}`)

	adapter := &stubAdapter{ext: ".py", sources: map[string]types.SourceDescriptor{
		"a.py": {Path: "a.py", Defined: []types.Artifact{
			{Type: types.KindFunction, Name: "run"},
			{Type: types.KindFunction, Name: "helper"},
		}},
	}, tests: map[string]types.SourceDescriptor{
		"test_a.py": {Path: "test_a.py", Usages: []types.UsageRef{
			{Kind: types.UsageCall, Name: "run"},
			{Kind: types.UsageCall, Name: "helper"},
		}},
	}}
	reg := langadapter.NewRegistry(adapter)
	fs := &fakeFS{files: map[string][]byte{
		"a.py":      []byte("def run(): ...\ndef helper(): ..."),
		"test_a.py": []byte("def test_x(): run(); helper()"),
	}}

	report, err := Run(context.Background(), baseConfig(dir), dir, reg, fs, nil)
	require.NoError(t, err)

	for _, d := range report.Diagnostics {
		assert.NotEqual(t, types.KindMissingArtifact, d.Kind, "both run and helper are defined")
		assert.NotEqual(t, types.KindIllegalSupersession, d.Kind, "a snapshot manifest may legally be superseded")
	}
	assert.Equal(t, 0, report.ExitCode)
}

func TestScenario_BehaviouralCoverageGap(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "task-001-billing.manifest.json", `{
		"goal": "add payment processing",
		"taskType": "create",
		"creatableFiles": ["billing.py"],
		"validationCommand": ["pytest", "test_billing.py"],
		"expectedArtifacts": {"file": "billing.py", "contains": [{"type": "function", "name": "process_payment"}]}
	}`)

	adapter := &stubAdapter{
		ext: ".py",
		sources: map[string]types.SourceDescriptor{
			"billing.py": {Path: "billing.py", Defined: []types.Artifact{{Type: types.KindFunction, Name: "process_payment"}}},
		},
		tests: map[string]types.SourceDescriptor{
			"test_billing.py": {Path: "test_billing.py", Usages: []types.UsageRef{
				{Kind: types.UsageCall, Name: "unrelated_helper"},
			}},
		},
	}
	reg := langadapter.NewRegistry(adapter)
	fs := &fakeFS{files: map[string][]byte{
		"billing.py":      []byte("def process_payment(): ..."),
		"test_billing.py": []byte("def test_x(): unrelated_helper()"),
	}}

	report, err := Run(context.Background(), baseConfig(dir), dir, reg, fs, nil)
	require.NoError(t, err)

	var found bool
	for _, d := range report.Diagnostics {
		if d.Kind == types.KindBehaviourMissing {
			found = true
		}
	}
	assert.True(t, found, "expected BehaviourMissing for process_payment, got %+v", report.Diagnostics)
}

func TestScenario_DeletionManifestFileStillPresent(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "task-060-old.manifest.json", `{
		"goal": "introduce old module",
		"taskType": "snapshot",
		"expectedArtifacts": {"file": "src/old.py", "contains": [{"type": "function", "name": "legacy"}]}
	}`)
	writeManifest(t, dir, "task-077-remove.manifest.json", `{
		"goal": "retire old module",
		"taskType": "refactor",
		"supersedes": ["task-060-old.manifest.json"],
		"expectedArtifacts": {"file": "src/old.py", "status": "absent", "contains": []}
	}`)

	adapter := &stubAdapter{ext: ".py", sources: map[string]types.SourceDescriptor{
		"src/old.py": {Path: "src/old.py", Defined: []types.Artifact{{Type: types.KindFunction, Name: "legacy"}}},
	}}
	reg := langadapter.NewRegistry(adapter)
	fs := &fakeFS{files: map[string][]byte{"src/old.py": []byte("def legacy(): ...")}}

	report, err := Run(context.Background(), baseConfig(dir), dir, reg, fs, nil)
	require.NoError(t, err)

	var found bool
	for _, d := range report.Diagnostics {
		if d.Kind == types.KindUnexpectedFilePresent {
			found = true
		}
	}
	assert.True(t, found, "expected UnexpectedFilePresent since src/old.py still exists on disk, got %+v", report.Diagnostics)
}

func TestScenario_DeletionManifestFileAbsentSucceeds(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "task-060-old.manifest.json", `{
		"goal": "introduce old module",
		"taskType": "snapshot",
		"expectedArtifacts": {"file": "src/old.py", "contains": [{"type": "function", "name": "legacy"}]}
	}`)
	writeManifest(t, dir, "task-077-remove.manifest.json", `{
		"goal": "retire old module",
		"taskType": "refactor",
		"supersedes": ["task-060-old.manifest.json"],
		"expectedArtifacts": {"file": "src/old.py", "status": "absent", "contains": []}
	}`)

	reg := langadapter.NewRegistry(&stubAdapter{ext: ".py"})
	fs := &fakeFS{files: map[string][]byte{}}

	report, err := Run(context.Background(), baseConfig(dir), dir, reg, fs, nil)
	require.NoError(t, err)

	for _, d := range report.Diagnostics {
		assert.NotEqual(t, types.KindUnexpectedFilePresent, d.Kind)
	}
	assert.Equal(t, 0, report.ExitCode)
}

func TestScenario_EmptyManifestDirectorySucceeds(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig(dir)

	report, err := Run(context.Background(), cfg, dir, langadapter.NewRegistry(), &fakeFS{files: map[string][]byte{}}, nil)
	require.NoError(t, err)
	assert.Empty(t, report.Diagnostics)
	assert.Equal(t, 0, report.ExitCode)
}

func TestScenario_SingleManifestIsNotADuplicate(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "task-001-a.manifest.json", `{"goal": "a", "creatableFiles": ["a.py"]}`)

	report, err := Run(context.Background(), baseConfig(dir), dir, langadapter.NewRegistry(), &fakeFS{files: map[string][]byte{}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.ExitCode, "a single manifest on its own is not a duplicate")
}
