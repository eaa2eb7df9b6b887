package logging

// Standardized field names used across the codebase.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldProvider  = "provider"
	FieldTitle     = "title"
	FieldYear      = "year"
	FieldSlug      = "slug"
	FieldPhase     = "phase"
)
