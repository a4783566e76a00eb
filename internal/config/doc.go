// Package config loads, normalizes, and validates clean-folder configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts) and
// reads an optional TOML file. Settings cover logging, archive folder naming,
// the run history journal and the lock directory; the category table itself is
// fixed and deliberately absent.
package config
