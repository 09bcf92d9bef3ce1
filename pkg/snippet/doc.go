// Package snippet builds configured code samples: given a snippet
// configuration describing one RPC invocation, an API schema, an API
// version and a sync/async flag, it incrementally constructs a single
// sample function definition and renders it to Python source text.
//
// The configuration and schema are read-only inputs shared by reference.
// Each ConfiguredSnippet exclusively owns its function and module state
// and is meant for single-owner sequential use; Generate is called once
// and the naming properties and Code are read afterwards.
package snippet
