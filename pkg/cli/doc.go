// Package cli implements the snippetgen command line interface: batch
// generation of snippets from configuration files, configuration
// validation against a proto schema, and a watch mode that regenerates
// snippets when configurations change.
package cli
