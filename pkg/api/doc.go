// Package api exposes snippet generation over HTTP: a generate endpoint
// accepting inline snippet configurations (and optional inline proto
// schemas), listing and retrieval of persisted snippets, health, and
// Prometheus metrics. Requests are tagged with a UUID request ID and
// logged structurally.
package api
