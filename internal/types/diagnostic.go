package types

import "fmt"

// Severity ranks a Diagnostic for sorting and exit-code derivation.
type Severity string

const (
	SeverityFatal   Severity = "fatal"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

var severityRank = map[Severity]int{
	SeverityFatal:   0,
	SeverityError:   1,
	SeverityWarning: 2,
	SeverityInfo:    3,
}

// Rank returns s's position in the fatal < error < warning < info ordering
// the Diagnostic Engine sorts by.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// DiagnosticKind is the problem taxonomy the kernel reports. It is open for
// extension (a string, not a closed Go enum) because adapters and
// constraint predicates can introduce their own kinds, but the kernel's own
// components only ever emit the names below.
type DiagnosticKind string

const (
	KindSchemaViolation    DiagnosticKind = "SchemaViolation"
	KindIllegalSupersession DiagnosticKind = "IllegalSupersession"
	KindSupersessionCycle  DiagnosticKind = "SupersessionCycle"
	KindDuplicateManifest  DiagnosticKind = "DuplicateManifest"
	KindParseError         DiagnosticKind = "ParseError"
	KindUnsupportedSyntax  DiagnosticKind = "UnsupportedSyntax"
	KindMissingArtifact    DiagnosticKind = "MissingArtifact"
	KindUndeclaredArtifact DiagnosticKind = "UndeclaredArtifact"
	KindTypeMismatch       DiagnosticKind = "TypeMismatch"
	KindUnexpectedFilePresent DiagnosticKind = "UnexpectedFilePresent"
	KindBehaviourMissing   DiagnosticKind = "BehaviourMissing"
	KindDuplicateArtifact  DiagnosticKind = "DuplicateArtifact"
	KindNamingViolation    DiagnosticKind = "NamingViolation"
	KindDependencyCycle    DiagnosticKind = "DependencyCycle"
	KindMissingDeclaration DiagnosticKind = "MissingDeclaration"
	KindConstraintViolation DiagnosticKind = "ConstraintViolation"
	KindUntrackedFile      DiagnosticKind = "UntrackedFile"
	KindUntrackedTest      DiagnosticKind = "UntrackedTest"
	KindCacheCorrupted     DiagnosticKind = "CacheCorrupted"
	KindCancelled          DiagnosticKind = "Cancelled"
)

// Location pins a Diagnostic to a place in the project. Line and Column are
// optional (zero means "file-level"); JSONPointer is populated only for
// SchemaViolation diagnostics that reference a position inside a manifest
// document.
type Location struct {
	File        string `json:"file"`
	Line        int    `json:"line,omitempty"`
	Column      int    `json:"column,omitempty"`
	JSONPointer string `json:"jsonPointer,omitempty"`
}

func (l Location) String() string {
	if l.Line > 0 {
		if l.Column > 0 {
			return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
		}
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return l.File
}

// Diagnostic is a normalised, located error/warning/info record. It is the
// sole unit of output the kernel produces about a problem.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Severity Severity       `json:"severity"`
	Location Location       `json:"location"`
	Message  string         `json:"message"`
	Hints    []string       `json:"hints,omitempty"`

	// ManifestRef names the manifest this diagnostic concerns, when
	// applicable, by dense handle rather than by pointer.
	ManifestRef ManifestID `json:"-"`
}

// DedupKey identifies diagnostics the engine considers duplicates: same
// kind, same location, same message.
func (d Diagnostic) DedupKey() string {
	return string(d.Kind) + "\x00" + d.Location.String() + "\x00" + d.Message
}

// Fatal builds a fatal-severity diagnostic.
func Fatal(kind DiagnosticKind, loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Severity: SeverityFatal, Location: loc, Message: fmt.Sprintf(format, args...)}
}

// Err builds an error-severity diagnostic.
func Err(kind DiagnosticKind, loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Severity: SeverityError, Location: loc, Message: fmt.Sprintf(format, args...)}
}

// Warn builds a warning-severity diagnostic.
func Warn(kind DiagnosticKind, loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Severity: SeverityWarning, Location: loc, Message: fmt.Sprintf(format, args...)}
}

// Info builds an info-severity diagnostic.
func Info(kind DiagnosticKind, loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Severity: SeverityInfo, Location: loc, Message: fmt.Sprintf(format, args...)}
}
