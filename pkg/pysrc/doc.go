// Package pysrc models the subset of Python source elements needed to
// build generated code samples: a module, function definitions, and the
// handful of statement and expression forms a sample body uses.
//
// The model is deliberately simpler than a full Python AST. Statement
// bodies are plain ordered slices, so appending to a specific block is a
// slice push and never requires walking into nested blocks. Nodes are
// built up in memory and rendered to source text at the end via
// Module.Code.
package pysrc
