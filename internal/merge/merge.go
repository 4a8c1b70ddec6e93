// Package merge is the Artifact Merger: folds a file's
// active chain into a single ExpectedSet.
package merge

import (
	"github.com/mamertofabian/maidrunner/internal/types"
)

// Merge folds chain's expectedArtifacts.contains entries for file into an
// ordered map keyed by MergeKey, later entries overwriting earlier ones
// under the same key (intentional refinement). A status=absent entry
// tombstones the set; a later non-absent entry for the same file re-creates
// it from scratch — merge is annihilated-then-restarted by a tombstone, not
// merely masked, read forward in chain order.
func Merge(chain []*types.Manifest, file string) types.ExpectedSet {
	result := types.ExpectedSet{File: file}

	order := make([]types.MergeKey, 0)
	byKey := make(map[types.MergeKey]types.Artifact)

	var cmdSeen [][]string

	for _, m := range chain {
		ea := m.ExpectedArtifacts
		if ea == nil || ea.File != file {
			continue
		}

		if ea.EffectiveStatus() == types.StatusAbsent {
			result.Tombstoned = true
			order = order[:0]
			byKey = make(map[types.MergeKey]types.Artifact)
			continue
		}

		result.Tombstoned = false
		for _, a := range ea.Contains {
			key := a.MergeKey()
			if _, exists := byKey[key]; !exists {
				order = append(order, key)
			}
			byKey[key] = a
		}
	}

	for _, key := range order {
		result.Artifacts = append(result.Artifacts, byKey[key])
	}

	for _, m := range chain {
		if m.EffectiveTaskType() == types.TaskSnapshot {
			continue
		}
		for _, vec := range m.ValidationCommandVectors() {
			if !containsVector(cmdSeen, vec) {
				cmdSeen = append(cmdSeen, vec)
			}
		}
	}
	result.ValidationCommands = cmdSeen

	return result
}

func containsVector(haystack [][]string, needle []string) bool {
	for _, v := range haystack {
		if equalVector(v, needle) {
			return true
		}
	}
	return false
}

func equalVector(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
