// Package generator orchestrates snippet generation: it validates
// generation requests, builds configured snippets for the sync and async
// variants, caches rendered results in a multi-level cache (in-memory LRU
// with an optional Redis tier) and fans batch generation out across a
// bounded worker pool.
package generator
