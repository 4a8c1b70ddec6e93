// Package graphexport emits the kernel's knowledge graph in four formats:
// node-link JSON, DOT, a flowchart text form, and TOML.
package graphexport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/mamertofabian/maidrunner/internal/types"
)

// NodeKind tags one node in the exported graph.
type NodeKind string

const (
	NodeManifest NodeKind = "manifest"
	NodeFile     NodeKind = "file"
	NodeArtifact NodeKind = "artifact"
	NodeModule   NodeKind = "module"
)

// EdgeKind tags one edge.
type EdgeKind string

const (
	EdgeDependsOn  EdgeKind = "depends_on"
	EdgeDefinedIn  EdgeKind = "defined_in"
	EdgeSupersedes EdgeKind = "supersedes"
	EdgeImplements EdgeKind = "implements"
	EdgeBelongsTo  EdgeKind = "belongs_to"
)

// Node is one graph node.
type Node struct {
	ID   string   `json:"id" toml:"id"`
	Kind NodeKind `json:"kind" toml:"kind"`
	Label string  `json:"label" toml:"label"`
}

// Edge is one directed graph edge.
type Edge struct {
	Source string   `json:"source" toml:"source"`
	Target string   `json:"target" toml:"target"`
	Kind   EdgeKind `json:"kind" toml:"kind"`
}

// Graph is the whole exportable knowledge graph.
type Graph struct {
	Nodes []Node `json:"nodes" toml:"nodes"`
	Edges []Edge `json:"edges" toml:"edges"`
}

// Build assembles a Graph from a store's manifests and the runner's
// per-file parse/merge results. manifests is every manifest the store
// holds (so supersedes edges survive even for manifests whose file has no
// active chain); files maps each validated file to its merged expected
// artifacts, and imports maps each file to the files its imports resolve to.
func Build(manifests []*types.Manifest, files map[string]types.ExpectedSet, imports map[string][]string) Graph {
	var g Graph
	seen := make(map[string]bool)

	addNode := func(id string, kind NodeKind, label string) {
		if seen[id] {
			return
		}
		seen[id] = true
		g.Nodes = append(g.Nodes, Node{ID: id, Kind: kind, Label: label})
	}

	for _, m := range manifests {
		manifestID := "manifest:" + m.Name
		addNode(manifestID, NodeManifest, m.Name)

		if m.ExpectedArtifacts != nil {
			fileID := "file:" + m.ExpectedArtifacts.File
			addNode(fileID, NodeFile, m.ExpectedArtifacts.File)
			g.Edges = append(g.Edges, Edge{Source: manifestID, Target: fileID, Kind: EdgeBelongsTo})
		}

		for _, sup := range m.Supersedes {
			supID := "manifest:" + sup
			addNode(supID, NodeManifest, sup)
			g.Edges = append(g.Edges, Edge{Source: manifestID, Target: supID, Kind: EdgeSupersedes})
		}
	}

	for file, expected := range files {
		fileID := "file:" + file
		addNode(fileID, NodeFile, file)
		for _, a := range expected.Artifacts {
			artID := fmt.Sprintf("artifact:%s:%s:%s", file, a.Type, a.Name)
			addNode(artID, NodeArtifact, string(a.Type)+" "+a.Name)
			g.Edges = append(g.Edges, Edge{Source: artID, Target: fileID, Kind: EdgeDefinedIn})
			g.Edges = append(g.Edges, Edge{Source: fileID, Target: artID, Kind: EdgeImplements})
		}
	}

	for from, targets := range imports {
		fromID := "file:" + from
		addNode(fromID, NodeFile, from)
		for _, to := range targets {
			toID := "file:" + to
			addNode(toID, NodeFile, to)
			g.Edges = append(g.Edges, Edge{Source: fromID, Target: toID, Kind: EdgeDependsOn})
		}
	}

	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].Source != g.Edges[j].Source {
			return g.Edges[i].Source < g.Edges[j].Source
		}
		if g.Edges[i].Target != g.Edges[j].Target {
			return g.Edges[i].Target < g.Edges[j].Target
		}
		return g.Edges[i].Kind < g.Edges[j].Kind
	})

	return g
}

// EmitJSON renders g as a node-link JSON document.
func EmitJSON(g Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// EmitTOML renders g using pelletier/go-toml/v2 — an alternate structured
// format alongside JSON, for consumers already standardised on TOML
// config/export tooling.
func EmitTOML(g Graph) ([]byte, error) {
	return toml.Marshal(g)
}

// EmitDOT renders g as a Graphviz DOT digraph. There is no DOT-writing
// library anywhere in the retrieved example set, so this writes plain text
// with fmt.Fprintf directly — the one place this package reaches for the
// standard library over a third-party encoder.
func EmitDOT(g Graph) []byte {
	var buf bytes.Buffer
	buf.WriteString("digraph maid {\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=%s];\n", n.ID, n.Label, dotShape(n.Kind))
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, e.Kind)
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}

func dotShape(k NodeKind) string {
	switch k {
	case NodeManifest:
		return "box"
	case NodeArtifact:
		return "ellipse"
	case NodeModule:
		return "note"
	default:
		return "folder"
	}
}

// EmitFlowchart renders g as an indentation-based text outline: one line
// per node, children indented under each outgoing edge.
func EmitFlowchart(g Graph) string {
	children := make(map[string][]Edge)
	for _, e := range g.Edges {
		children[e.Source] = append(children[e.Source], e)
	}
	labels := make(map[string]string, len(g.Nodes))
	hasIncoming := make(map[string]bool)
	for _, n := range g.Nodes {
		labels[n.ID] = n.Label
	}
	for _, e := range g.Edges {
		hasIncoming[e.Target] = true
	}

	var buf bytes.Buffer
	visited := make(map[string]bool)

	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		if visited[id] {
			fmt.Fprintf(&buf, "%s%s (seen above)\n", indent(depth), labels[id])
			return
		}
		visited[id] = true
		fmt.Fprintf(&buf, "%s%s\n", indent(depth), labels[id])
		for _, e := range children[id] {
			fmt.Fprintf(&buf, "%s  -[%s]->\n", indent(depth), e.Kind)
			visit(e.Target, depth+1)
		}
	}

	for _, n := range g.Nodes {
		if !hasIncoming[n.ID] {
			visit(n.ID, 0)
		}
	}
	return buf.String()
}

func indent(depth int) string {
	out := make([]byte, depth*2)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}
