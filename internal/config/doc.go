// Package config loads, normalizes, and validates reelsync configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and centralizes every knob the daemon and
// CLI need: provider selection, service base URLs, cache retention, sync
// pacing, and the API bind address. Always obtain settings through this
// package so downstream code receives sanitized paths and clear validation
// errors.
package config
