// Package observability provides structured logging and Prometheus
// metrics for the snippet generation toolchain. The logger wraps
// log/slog with leveled, field-oriented helpers and context plumbing for
// request IDs; Metrics bundles the counters and histograms the HTTP
// surface and the generator record.
package observability
