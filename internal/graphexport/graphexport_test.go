package graphexport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamertofabian/maidrunner/internal/types"
)

func sampleGraph() Graph {
	manifests := []*types.Manifest{
		{Name: "task-001-a.manifest.json", ExpectedArtifacts: &types.ExpectedArtifacts{File: "a.py"}},
		{Name: "task-002-b.manifest.json", ExpectedArtifacts: &types.ExpectedArtifacts{File: "b.py"}, Supersedes: []string{"task-001-a.manifest.json"}},
	}
	files := map[string]types.ExpectedSet{
		"a.py": {File: "a.py", Artifacts: []types.Artifact{{Type: types.KindFunction, Name: "run"}}},
	}
	imports := map[string][]string{"b.py": {"a.py"}}
	return Build(manifests, files, imports)
}

func TestBuild_IncludesSupersedesAndImplementsEdges(t *testing.T) {
	g := sampleGraph()

	var sawSupersedes, sawImplements, sawDependsOn bool
	for _, e := range g.Edges {
		switch e.Kind {
		case EdgeSupersedes:
			sawSupersedes = true
		case EdgeImplements:
			sawImplements = true
		case EdgeDependsOn:
			sawDependsOn = true
		}
	}
	assert.True(t, sawSupersedes)
	assert.True(t, sawImplements)
	assert.True(t, sawDependsOn)
}

func TestEmitJSON_RoundTrips(t *testing.T) {
	g := sampleGraph()
	data, err := EmitJSON(g)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"kind\":")
	assert.Contains(t, string(data), "\"manifest\"")
}

func TestEmitTOML_Succeeds(t *testing.T) {
	g := sampleGraph()
	data, err := EmitTOML(g)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestEmitDOT_ContainsEdges(t *testing.T) {
	g := sampleGraph()
	dot := string(EmitDOT(g))
	assert.True(t, strings.HasPrefix(dot, "digraph maid {"))
	assert.Contains(t, dot, "->")
}

func TestEmitFlowchart_StartsFromRoots(t *testing.T) {
	g := sampleGraph()
	out := EmitFlowchart(g)
	assert.NotEmpty(t, out)
	assert.True(t, strings.HasPrefix(out, "task-002-b.manifest.json\n"), out)
}
