package logging

// Structured logging keys.
const (
	FieldError    = "error"
	FieldPath     = "path"
	FieldOutput   = "output"
	FieldKind     = "kind"
	FieldLanguage = "language"
	FieldWorkers  = "workers"
	FieldPages    = "pages"
	FieldSections = "sections"
	FieldDuration = "duration"
	FieldVersion  = "version"
)
