// Package diagnostic is the Diagnostic Engine: collects
// findings from every validator into one append-only sink, then
// deduplicates, sorts, and emits the final report.
package diagnostic

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mamertofabian/maidrunner/internal/types"
)

// Sink is the append-only, multi-producer collection point every
// validator writes into during a run — a third shared-mutable
// arena, alongside the manifest index and the cache.
type Sink struct {
	mu    sync.Mutex
	items []types.Diagnostic
}

// NewSink builds an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add appends diags to the sink. Safe for concurrent use by multiple
// worker goroutines.
func (s *Sink) Add(diags ...types.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, diags...)
}

// Snapshot returns a copy of every diagnostic collected so far.
func (s *Sink) Snapshot() []types.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Diagnostic, len(s.items))
	copy(out, s.items)
	return out
}

// Engine finalises a Sink's contents into the ordered, deduplicated report.
type Engine struct {
	sink *Sink
}

// NewEngine wraps sink.
func NewEngine(sink *Sink) *Engine {
	return &Engine{sink: sink}
}

// Finalize dedups diagnostics sharing (Kind, Location, Message) and orders
// the remainder by severity rank then location string.
func (e *Engine) Finalize() []types.Diagnostic {
	seen := make(map[string]bool)
	var out []types.Diagnostic
	for _, d := range e.sink.Snapshot() {
		key := d.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity.Rank() != out[j].Severity.Rank() {
			return out[i].Severity.Rank() < out[j].Severity.Rank()
		}
		return out[i].Location.String() < out[j].Location.String()
	})

	return out
}

// ExitCode derives the process exit status: any
// error or fatal diagnostic means failure (1), else success (0).
func ExitCode(diags []types.Diagnostic) int {
	for _, d := range diags {
		if d.Severity == types.SeverityError || d.Severity == types.SeverityFatal {
			return 1
		}
	}
	return 0
}

// EmitJSON renders diags as a structured JSON array.
func EmitJSON(diags []types.Diagnostic) ([]byte, error) {
	if diags == nil {
		diags = []types.Diagnostic{}
	}
	return json.MarshalIndent(diags, "", "  ")
}

// EmitHuman renders diags as a terse, one-line-per-diagnostic table in a
// plain register: no colour, no emoji, location first.
func EmitHuman(diags []types.Diagnostic) string {
	if len(diags) == 0 {
		return "no findings\n"
	}

	var sb strings.Builder
	for _, d := range diags {
		fmt.Fprintf(&sb, "%-7s %-24s %s: %s\n", strings.ToUpper(string(d.Severity)), d.Kind, d.Location.String(), d.Message)
		for _, h := range d.Hints {
			fmt.Fprintf(&sb, "        hint: %s\n", h)
		}
	}
	fmt.Fprintf(&sb, "\n%d finding(s)\n", len(diags))
	return sb.String()
}
