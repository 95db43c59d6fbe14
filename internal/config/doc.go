// Package config loads, normalizes, and validates viidemo configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the VIIDEMO_MANIFEST environment
// fallback. The Config type centralizes every knob the build, serve, and
// inspect commands need so site roots, manifest locations, and media probing
// settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
