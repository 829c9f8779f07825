package analyzer

import (
	"github.com/ardanlabs/babbisch/decl"
)

// DiagnosticKind classifies a non-fatal finding.
type DiagnosticKind string

const (
	// IncompleteType: a struct or union referenced but never declared. Its
	// kind was taken from the reference or guessed as struct.
	IncompleteType DiagnosticKind = "incomplete-type"

	// GuessedKind: a defined class whose kind the front end did not report.
	// It is analyzed as a struct.
	GuessedKind DiagnosticKind = "guessed-kind"

	// Redefinition: an entity replaced a different entity under the same tag.
	Redefinition DiagnosticKind = "redefinition"
)

// Diagnostic is a lossy recovery applied during analysis.
type Diagnostic struct {
	Kind    DiagnosticKind
	Tag     string
	Coord   *decl.Coord
	Guessed bool
	Message string
}
