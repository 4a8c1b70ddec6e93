// Package runner is the orchestrator: Load -> Resolve -> Parse -> CheckImpl
// -> CheckBehaviour -> CheckCoherence -> Report, wiring every other
// component into one validation run.
package runner

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mamertofabian/maidrunner/internal/behavior"
	"github.com/mamertofabian/maidrunner/internal/cache"
	"github.com/mamertofabian/maidrunner/internal/chain"
	"github.com/mamertofabian/maidrunner/internal/coherence"
	"github.com/mamertofabian/maidrunner/internal/config"
	"github.com/mamertofabian/maidrunner/internal/diagnostic"
	"github.com/mamertofabian/maidrunner/internal/implvalidate"
	"github.com/mamertofabian/maidrunner/internal/langadapter"
	"github.com/mamertofabian/maidrunner/internal/langadapter/golang"
	"github.com/mamertofabian/maidrunner/internal/langadapter/python"
	"github.com/mamertofabian/maidrunner/internal/langadapter/svelte"
	"github.com/mamertofabian/maidrunner/internal/langadapter/tsx"
	"github.com/mamertofabian/maidrunner/internal/merge"
	"github.com/mamertofabian/maidrunner/internal/store"
	"github.com/mamertofabian/maidrunner/internal/tracker"
	"github.com/mamertofabian/maidrunner/internal/types"
)

// DefaultRegistry builds the Language Adapter registry every Run call uses
// unless a caller substitutes its own (tests mostly do, to register a stub).
func DefaultRegistry() *langadapter.Registry {
	return langadapter.NewRegistry(
		python.New(),
		tsx.New(),
		svelte.New(),
		golang.New(),
	)
}

// Report is the complete outcome of one validation run.
type Report struct {
	Diagnostics []types.Diagnostic
	Tracking    []tracker.Entry
	ExitCode    int
	FilesChecked int
}

// Run executes the full pipeline against the manifests in manifestDir,
// which is handed to store.Load as given (it is not resolved against
// cfg.Project.Root). fs lets callers substitute the filesystem in
// tests; production callers pass FS{Root: cfg.Project.Root}.
func Run(ctx context.Context, cfg *config.Config, manifestDir string, adapters *langadapter.Registry, fs Filesystem, diskCache *cache.DiskCache) (Report, error) {
	sink := diagnostic.NewSink()

	// Load.
	st, loadDiags, err := store.Load(manifestDir)
	sink.Add(loadDiags...)
	if err != nil {
		return finalize(sink), err
	}

	if hasFatal(loadDiags) {
		return finalize(sink), nil
	}

	// Resolve.
	resolver := chain.New(st)
	files := st.Files()
	sort.Strings(files)

	type resolved struct {
		file  string
		chain []*types.Manifest
	}
	activeChains := make([]resolved, 0, len(files))
	for _, f := range files {
		active, diags := resolver.ActiveChain(f)
		sink.Add(diags...)
		if len(active) == 0 {
			continue
		}
		activeChains = append(activeChains, resolved{file: f, chain: active})
	}

	// Parse + CheckImpl, fanned out one goroutine per file.
	mem := cache.New()

	type fileResult struct {
		file     string
		expected types.ExpectedSet
		src      types.SourceDescriptor
	}
	results := make([]fileResult, len(activeChains))

	g, gctx := errgroup.WithContext(ctx)
	workers := cfg.Performance.ParallelFileWorkers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	fp := st.Fingerprint()
	var mu sync.Mutex
	for i, rc := range activeChains {
		i, rc := i, rc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			expected := mergedExpectedSet(diskCache, fp, rc.chain, rc.file)

			adapter := adapters.For(rc.file)
			raw, exists := fs.ReadFile(rc.file)

			var src types.SourceDescriptor
			var parseDiags []types.Diagnostic
			if adapter == nil {
				if exists && !expected.Tombstoned {
					parseDiags = append(parseDiags, types.Warn(types.KindUnsupportedSyntax, types.Location{File: rc.file},
						"no language adapter registered for %q", rc.file))
				}
			} else if exists {
				key := cache.HashKey("source:"+adapter.Language(), raw)
				cached, ok := mem.Get(key)
				if ok {
					src = cached.(types.SourceDescriptor)
				} else {
					var d []types.Diagnostic
					src, d = adapter.ParseSource(rc.file, raw)
					parseDiags = append(parseDiags, d...)
					mem.Put(key, src)
				}
			}

			implDiags := implvalidate.Check(rc.file, expected, src, exists, modeFor(rc.chain, rc.file))

			mu.Lock()
			results[i] = fileResult{file: rc.file, expected: expected, src: src}
			sink.Add(parseDiags...)
			sink.Add(implDiags...)
			mu.Unlock()

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		sink.Add(types.Warn(types.KindCancelled, types.Location{}, "validation run cancelled: %v", err))
		return finalize(sink), nil
	}

	// Behavioural Validator runs after every file's chain/expected set is
	// known, since following an import can cross into another file's test
	// code.
	bg, bgctx := errgroup.WithContext(ctx)
	bg.SetLimit(workers)
	for _, rc := range activeChains {
		rc := rc
		var expected types.ExpectedSet
		for _, r := range results {
			if r.file == rc.file {
				expected = r.expected
				break
			}
		}
		bg.Go(func() error {
			if err := bgctx.Err(); err != nil {
				return err
			}
			diags := behavior.Check(rc.chain, expected, adapters, fs, cfg.Behavioural.ImportFollowDepth)
			mu.Lock()
			sink.Add(diags...)
			mu.Unlock()
			return nil
		})
	}
	if err := bg.Wait(); err != nil {
		sink.Add(types.Warn(types.KindCancelled, types.Location{}, "behavioural validation cancelled: %v", err))
		return finalize(sink), nil
	}

	// CheckCoherence: whole-graph checks need every file's result together.
	fileSets := make([]coherence.FileSet, 0, len(results))
	graph := coherence.Graph{Edges: map[string][]string{}, Declared: map[string]bool{}}
	for _, r := range results {
		if r.file == "" {
			continue
		}
		fileSets = append(fileSets, coherence.FileSet{File: r.file, Artifacts: r.expected.Artifacts})
		graph.Declared[r.file] = true
		for _, imp := range r.src.Imports {
			if target, ok := fs.ResolveImport(r.file, imp.Module); ok {
				graph.Edges[r.file] = append(graph.Edges[r.file], target)
			}
		}
	}

	sink.Add(coherence.CheckDuplicates(fileSets)...)
	sink.Add(coherence.CheckDependencyCycle(graph)...)
	sink.Add(coherence.CheckMissingDeclarations(graph)...)
	sink.Add(namingDiagnostics(cfg, fileSets)...)

	// File Tracker sweep.
	runFiles := make(map[string]bool)
	for _, rc := range activeChains {
		for _, vec := range vectorsReferencing(rc.chain) {
			runFiles[vec] = true
		}
	}
	walked, walkErr := tracker.Walk(cfg.Project.Root, cfg.Tracker.ExcludeGlobs)
	var entries []tracker.Entry
	if walkErr == nil {
		views := make(map[string]tracker.FileView, len(results))
		for _, r := range results {
			if r.file == "" {
				continue
			}
			declared := make(map[types.MergeKey]bool, len(r.expected.Artifacts))
			for _, want := range r.expected.Artifacts {
				declared[types.MergeKey{Type: want.Type, Class: want.Class, Name: want.Name}] = true
			}
			covered := true
			for _, def := range r.src.Defined {
				if def.IsPublic() && !declared[types.MergeKey{Type: def.Type, Class: def.Class, Name: def.Name}] {
					covered = false
				}
			}
			views[r.file] = tracker.FileView{
				Referenced:      true,
				Expected:        r.expected,
				HasExpected:     len(r.expected.Artifacts) > 0,
				FullyCovered:    covered,
				IsTestFile:      looksLikeTestPath(r.file),
				ReferencedByRun: runFiles[r.file],
			}
		}
		for f := range runFiles {
			if _, ok := views[f]; !ok {
				views[f] = tracker.FileView{Referenced: true, IsTestFile: looksLikeTestPath(f), ReferencedByRun: true}
			}
		}
		entries = tracker.Classify(walked, views)
	}

	report := finalize(sink)
	report.Tracking = entries
	report.FilesChecked = len(activeChains)
	return report, nil
}

// mergedExpectedSet returns the merged expected artifact set for file,
// consulting diskCache first when one is supplied: the merge itself is
// pure given (chain, file), so a store whose Fingerprint hasn't changed
// between runs can skip recomputing it. Every field of ExpectedSet's
// Artifact entries round-trips through JSON unchanged — they come from
// manifests, never from parsed source, so the Line/Column/Private fields
// parsed artifacts carry are always zero here and nothing is lost.
func mergedExpectedSet(diskCache *cache.DiskCache, storeFingerprint string, chain []*types.Manifest, file string) types.ExpectedSet {
	if diskCache == nil {
		return merge.Merge(chain, file)
	}
	key := cache.HashKey("expected:"+storeFingerprint, []byte(file))
	var cached types.ExpectedSet
	if diskCache.Load(key, &cached) {
		return cached
	}
	expected := merge.Merge(chain, file)
	_ = diskCache.Store(key, expected)
	return expected
}

func finalize(sink *diagnostic.Sink) Report {
	engine := diagnostic.NewEngine(sink)
	diags := engine.Finalize()
	return Report{Diagnostics: diags, ExitCode: diagnostic.ExitCode(diags)}
}

// vectorsReferencing flattens every file path token out of chain's
// validationCommand(s), for the File Tracker's "named in some
// validationCommand vector" classification.
func vectorsReferencing(chain []*types.Manifest) []string {
	var out []string
	for _, m := range chain {
		for _, vec := range m.ValidationCommandVectors() {
			for _, tok := range vec {
				if looksLikeTestPath(tok) {
					out = append(out, tok)
				}
			}
		}
	}
	return out
}

// looksLikeTestPath is a small, independent heuristic for "this token
// names a test file" — good enough for tracker classification without
// importing the Behavioural Validator's own (unexported) discovery logic.
func looksLikeTestPath(tok string) bool {
	lower := strings.ToLower(tok)
	for _, marker := range []string{"test_", "_test.", ".test.", "spec.", "_spec."} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func hasFatal(diags []types.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == types.SeverityFatal {
			return true
		}
	}
	return false
}

// modeFor derives the Implementation Validator's mode for file from its
// active chain's latest entry: strict when file is creatable there,
// permissive when only editable. A file that is neither (readonly-only, or
// named solely via expectedArtifacts) defaults to permissive — there is no
// creation contract to hold it exactly to.
func modeFor(chain []*types.Manifest, file string) implvalidate.Mode {
	if len(chain) == 0 {
		return implvalidate.Permissive
	}
	latest := chain[len(chain)-1]
	if latest.IsCreatable(file) {
		return implvalidate.Strict
	}
	return implvalidate.Permissive
}

func namingDiagnostics(cfg *config.Config, sets []coherence.FileSet) []types.Diagnostic {
	var rules []coherence.NamingRule
	if cfg.Naming.FunctionPattern != "" {
		if re, err := regexp.Compile(cfg.Naming.FunctionPattern); err == nil {
			rules = append(rules, coherence.NamingRule{
				Description: fmt.Sprintf("function name must match %q", cfg.Naming.FunctionPattern),
				MatchesName: func(name string) bool { return re.MatchString(name) },
				AppliesTo:   func(k types.ArtifactKind) bool { return k == types.KindFunction || k == types.KindMethod },
			})
		}
	}
	if cfg.Naming.ClassPattern != "" {
		if re, err := regexp.Compile(cfg.Naming.ClassPattern); err == nil {
			rules = append(rules, coherence.NamingRule{
				Description: fmt.Sprintf("class name must match %q", cfg.Naming.ClassPattern),
				MatchesName: func(name string) bool { return re.MatchString(name) },
				AppliesTo:   func(k types.ArtifactKind) bool { return k == types.KindClass },
			})
		}
	}
	if len(rules) == 0 {
		return nil
	}
	return coherence.CheckNaming(sets, rules)
}
