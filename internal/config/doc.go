// Package config loads, normalizes, and validates mdxport configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MDXPORT_NTFY_TOPIC. The Config type centralizes every knob the exporter and
// CLI need: scene geometry, renderer quality, export defaults, and delivery
// settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical formats, and clear validation errors.
package config
