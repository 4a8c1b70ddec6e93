// Package chain is the Chain Resolver: computes the
// supersession closure and yields each file's active chronological chain.
package chain

import (
	"github.com/mamertofabian/maidrunner/internal/store"
	"github.com/mamertofabian/maidrunner/internal/types"
)

// Resolver wraps a *store.Store so ActiveChain calls don't repeat the
// global superseded-set computation per file.
type Resolver struct {
	s              *store.Store
	superseded     map[string]bool
	cycle          []string
	illegalSupers  []types.Diagnostic
}

// New builds a Resolver over s, eagerly computing the store-wide checks
// (cycle detection, illegal supersession) once so repeated ActiveChain
// calls for different files don't redo whole-graph work.
func New(s *store.Store) *Resolver {
	r := &Resolver{s: s, superseded: s.SupersededSet()}
	r.cycle = r.findCycle()
	r.illegalSupers = r.illegalSupersessions()
	return r
}

// ActiveChain returns the ordered sequence of manifests that reference file
// after removing any manifest transitively present in another manifest's
// supersedes, sorted by ascending task index. Illegal
// supersession (a non-snapshot manifest superseded) and supersession cycles
// are reported as diagnostics; on a cycle, chain resolution aborts for that
// file and returns no manifests.
func (r *Resolver) ActiveChain(file string) ([]*types.Manifest, []types.Diagnostic) {
	var diags []types.Diagnostic

	if len(r.cycle) > 0 {
		diags = append(diags, types.Fatal(types.KindSupersessionCycle, types.Location{File: file},
			"supersession cycle detected: %v", r.cycle))
		return nil, diags
	}

	diags = append(diags, r.illegalSupers...)

	candidates := r.s.ByFile(file)
	var active []*types.Manifest
	for _, m := range candidates {
		if r.superseded[m.Name] {
			continue
		}
		active = append(active, m)
	}

	// Store.ByFile returns load order, which is filename-sort order, not
	// task-index order ("task-10" sorts before "task-9"), so sort
	// explicitly here — task indices are unique (a store-load error
	// otherwise), so there are no ties to break.
	sortByTaskIndex(active)

	return active, diags
}

func sortByTaskIndex(ms []*types.Manifest) {
	for i := 1; i < len(ms); i++ {
		j := i
		for j > 0 && ms[j-1].TaskIndex > ms[j].TaskIndex {
			ms[j-1], ms[j] = ms[j], ms[j-1]
			j--
		}
	}
}

// illegalSupersessions finds manifests named in some supersedes list whose
// own taskType is not snapshot (or legacy-unlabelled, which defaults to
// snapshot): only a snapshot may be superseded.
func (r *Resolver) illegalSupersessions() []types.Diagnostic {
	var diags []types.Diagnostic
	for _, m := range r.s.All() {
		for _, supName := range m.Supersedes {
			sup, ok := r.s.Get(supName)
			if !ok {
				continue
			}
			if sup.EffectiveTaskType() != types.TaskSnapshot {
				diags = append(diags, types.Err(types.KindIllegalSupersession, types.Location{File: m.Name},
					"manifest %q supersedes %q, but %q has taskType=%q (only snapshot manifests may be superseded)",
					m.Name, supName, supName, sup.EffectiveTaskType()))
			}
		}
	}
	return diags
}

// findCycle runs a three-colour DFS over the supersedes graph (edges:
// manifest -> each name in its supersedes list) and returns the cycle's
// member names if one exists, else nil.
func (r *Resolver) findCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var path []string
	var cycle []string

	var visit func(name string) bool
	visit = func(name string) bool {
		switch color[name] {
		case black:
			return false
		case gray:
			// found the back edge; extract the cycle from path
			start := 0
			for i, n := range path {
				if n == name {
					start = i
					break
				}
			}
			cycle = append([]string{}, path[start:]...)
			cycle = append(cycle, name)
			return true
		}
		color[name] = gray
		path = append(path, name)

		m, ok := r.s.Get(name)
		if ok {
			for _, next := range m.Supersedes {
				if visit(next) {
					return true
				}
			}
		}

		path = path[:len(path)-1]
		color[name] = black
		return false
	}

	for _, m := range r.s.All() {
		if color[m.Name] == white {
			if visit(m.Name) {
				return cycle
			}
		}
	}
	return nil
}
