// Package store is the Manifest Store: loads, indexes, and
// caches manifests from a directory, and exposes read-only queries. The
// store is copy-on-write — every mutation (Load) produces a new *Store;
// nothing about an already-returned *Store ever changes underneath a
// caller, which keeps tests free to build stores entirely in memory.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	kerrors "github.com/mamertofabian/maidrunner/internal/errors"
	"github.com/mamertofabian/maidrunner/internal/schema"
	"github.com/mamertofabian/maidrunner/internal/types"
	"github.com/mamertofabian/maidrunner/pkg/pathutil"
)

// filenamePattern matches "task-<digits>(-<slug>)?.manifest.json", compiled
// once at package init.
var filenamePattern = regexp.MustCompile(`^task-(\d+)(?:-[A-Za-z0-9_-]+)?\.manifest\.json$`)

// Store is the frozen, indexed result of loading a manifest directory.
type Store struct {
	dir       string
	byName    map[string]*types.Manifest
	byFile    map[string][]*types.Manifest // affected file -> manifests referencing it, load order
	ordered   []*types.Manifest            // all manifests, ascending task index
	nextID    types.ManifestID
}

// Load reads every *.manifest.json file directly under dir, schema-validates
// each (internal/schema), rejects duplicate filenames and duplicate task
// indices, and builds the filename and affected-file indices. Load-phase
// failures are fatal for the run: an unreadable directory or manifest file
// surfaces as a non-nil error; a duplicate filename or task index, a
// filename without a task index, and a manifest that fails to decode
// surface as Fatal diagnostics; other schema-violation findings surface as
// diagnostics alongside a valid Store built from the manifests that did
// parse.
func Load(dir string) (*Store, []types.Diagnostic, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, kerrors.NewKernelError(kerrors.ErrorTypeLoad, "read_dir", err).WithPath(dir)
	}

	s := &Store{
		dir:    dir,
		byName: make(map[string]*types.Manifest),
		byFile: make(map[string][]*types.Manifest),
	}

	var diags []types.Diagnostic
	seenIndex := make(map[int]string)
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".manifest.json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		if _, dup := s.byName[name]; dup {
			diags = append(diags, types.Fatal(types.KindDuplicateManifest, types.Location{File: name},
				"duplicate manifest filename %q", name))
			continue
		}

		full := filepath.Join(dir, name)
		raw, err := os.ReadFile(full)
		if err != nil {
			return nil, diags, kerrors.NewKernelError(kerrors.ErrorTypeLoad, "read_manifest", err).WithPath(full)
		}

		if sdiags := schema.Validate(name, json.RawMessage(raw)); hasFatal(sdiags) {
			diags = append(diags, sdiags...)
			continue
		} else {
			diags = append(diags, sdiags...)
		}

		m, err := decode(name, full, raw)
		if err != nil {
			diags = append(diags, types.Fatal(types.KindSchemaViolation, types.Location{File: name},
				"failed to decode manifest: %v", err))
			continue
		}

		idx, ok := taskIndex(name)
		if !ok {
			diags = append(diags, types.Fatal(types.KindSchemaViolation, types.Location{File: name},
				"filename does not match task-<digits>(-slug)?.manifest.json"))
			continue
		}
		if other, dup := seenIndex[idx]; dup {
			diags = append(diags, types.Fatal(types.KindDuplicateManifest, types.Location{File: name},
				"task index %d already used by %q", idx, other))
			continue
		}
		seenIndex[idx] = name
		m.TaskIndex = idx
		m.ID = s.nextID
		s.nextID++

		m.CreatableFiles = normalizeAll(m.CreatableFiles)
		m.EditableFiles = normalizeAll(m.EditableFiles)
		m.ReadonlyFiles = normalizeAll(m.ReadonlyFiles)
		if m.ExpectedArtifacts != nil {
			m.ExpectedArtifacts.File = pathutil.Canonical(m.ExpectedArtifacts.File)
		}
		m.Supersedes = normalizeSupersedes(m.Supersedes)

		s.byName[name] = m
		s.ordered = append(s.ordered, m)

		for _, f := range affectedFiles(m) {
			s.byFile[f] = append(s.byFile[f], m)
		}
	}

	sort.Slice(s.ordered, func(i, j int) bool { return s.ordered[i].TaskIndex < s.ordered[j].TaskIndex })

	return s, diags, nil
}

func decode(name, full string, raw []byte) (*types.Manifest, error) {
	var m types.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	m.Name = name
	m.Path = full
	return &m, nil
}

func hasFatal(diags []types.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == types.SeverityFatal {
			return true
		}
	}
	return false
}

func taskIndex(name string) (int, bool) {
	match := filenamePattern.FindStringSubmatch(name)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func normalizeAll(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = pathutil.Canonical(p)
	}
	return out
}

// normalizeSupersedes keeps supersedes entries as bare filenames (they
// refer to other manifests by name, not by project-relative path) but
// trims any accidental directory component so lookups against Store.byName
// are robust to authors writing "../task-001.manifest.json".
func normalizeSupersedes(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = filepath.Base(n)
	}
	return out
}

func affectedFiles(m *types.Manifest) []string {
	seen := make(map[string]bool)
	var files []string
	add := func(f string) {
		if f == "" || seen[f] {
			return
		}
		seen[f] = true
		files = append(files, f)
	}
	for _, f := range m.CreatableFiles {
		add(f)
	}
	for _, f := range m.EditableFiles {
		add(f)
	}
	for _, f := range m.ReadonlyFiles {
		add(f)
	}
	if m.ExpectedArtifacts != nil {
		add(m.ExpectedArtifacts.File)
	}
	return files
}

// Get returns the manifest with the given filename.
func (s *Store) Get(name string) (*types.Manifest, bool) {
	m, ok := s.byName[name]
	return m, ok
}

// All returns every loaded manifest, ordered by ascending task index. The
// returned slice is a copy; callers may not mutate the store through it.
func (s *Store) All() []*types.Manifest {
	out := make([]*types.Manifest, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// ByFile returns every manifest that references path, in load order (not
// yet filtered for supersession — that is Chain Resolver's job).
func (s *Store) ByFile(path string) []*types.Manifest {
	path = pathutil.Canonical(path)
	src := s.byFile[path]
	out := make([]*types.Manifest, len(src))
	copy(out, src)
	return out
}

// Files returns the set of distinct files referenced by any manifest in the
// store.
func (s *Store) Files() []string {
	out := make([]string, 0, len(s.byFile))
	for f := range s.byFile {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// SupersededSet returns the union of every manifest's supersedes list,
// i.e. the set of manifest filenames that are archived.
func (s *Store) SupersededSet() map[string]bool {
	out := make(map[string]bool)
	for _, m := range s.ordered {
		for _, sup := range m.Supersedes {
			out[sup] = true
		}
	}
	return out
}

// Dir returns the directory the store was loaded from.
func (s *Store) Dir() string { return s.dir }

// Fingerprint returns a stable summary of the store's content identity —
// the ordered (name, taskIndex) pairs — suitable as a Cache Layer key for
// merged-artifact-set memoisation.
func (s *Store) Fingerprint() string {
	var b strings.Builder
	for _, m := range s.ordered {
		fmt.Fprintf(&b, "%s@%d;", m.Name, m.TaskIndex)
	}
	return b.String()
}
