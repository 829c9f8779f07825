package logger

// Standard field names for consistent structured logging.
const (
	// Components
	FieldComponent = "component"
	FieldFrontend  = "frontend"

	// Declarations
	FieldTag      = "tag"
	FieldName     = "name"
	FieldKind     = "kind"
	FieldPrevious = "previous"

	// Files and paths
	FieldFile   = "file"
	FieldLine   = "line"
	FieldOutput = "output"
	FieldFormat = "format"

	// Counts
	FieldCount       = "count"
	FieldObjects     = "objects"
	FieldDiagnostics = "diagnostics"

	// Errors
	FieldError = "error"
)
