package generator

import (
	"strings"
	"time"

	"github.com/platinummonkey/snippetgen/pkg/schema"
	"github.com/platinummonkey/snippetgen/pkg/snippet"
)

// Request describes one snippet generation: a configuration, the API
// version to target and the variant to produce. Schema is optional; when
// present the request is cross-checked against it.
type Request struct {
	Schema     *schema.API
	Config     *snippet.Config
	APIVersion string
	Sync       bool
}

// Variant returns "sync" or "async" for the request.
func (r *Request) Variant() string {
	if r.Sync {
		return "sync"
	}
	return "async"
}

// Result is one generated snippet plus its derived metadata.
type Result struct {
	RegionTag string        `json:"region_tag"`
	Filename  string        `json:"filename"`
	Code      string        `json:"code"`
	Sync      bool          `json:"sync"`
	Duration  time.Duration `json:"duration_ns"`
	CacheHit  bool          `json:"cache_hit"`
}

// Config holds generation configuration
type Config struct {
	MaxWorkers  int
	EnableCache bool
	CacheTTL    time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxWorkers:  5,
		EnableCache: true,
		CacheTTL:    time.Hour,
	}
}

// CacheKey identifies one generated snippet in the cache.
//
// Format: {service}:{rpc}:{configID}:{apiVersion}:{variant}:{configHash}.
// The config hash covers every configuration field that influences the
// output, so editing a config invalidates its cached entries.
type CacheKey struct {
	Service    string
	Rpc        string
	ConfigID   string
	APIVersion string
	Variant    string
	ConfigHash string
}

// String formats the cache key
func (k *CacheKey) String() string {
	return strings.Join([]string{
		k.Service, k.Rpc, k.ConfigID, k.APIVersion, k.Variant, k.ConfigHash,
	}, ":")
}
