// Package storage persists generated snippets. Each snippet is written
// under its derived filename so downstream documentation tooling can pick
// it up directly; region tags and variant information are kept alongside
// in a metadata sidecar.
package storage
