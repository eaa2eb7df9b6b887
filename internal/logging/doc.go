// Package logging builds the slog loggers used across reelsync.
//
// It provides a console handler for interactive use, a JSON handler for
// machine-readable logs, typed attribute helpers, and standardized field
// names so sync cycles can be traced end to end. Components should obtain
// loggers through NewComponentLogger so every record carries a component
// attribute.
package logging
