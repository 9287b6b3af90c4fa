// Package config loads, normalizes, and validates dupereview configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STASHBOX_API_KEY. The Config type centralizes every knob the CLI and the
// interactive reviewer need so the catalog endpoint, session backend, and
// state directories are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
