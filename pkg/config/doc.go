// Package config loads application configuration for the snippetgen
// server from SNIPPETGEN_* environment variables, with validation and
// sensible defaults.
package config
