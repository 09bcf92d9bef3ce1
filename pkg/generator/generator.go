package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/snippetgen/pkg/observability"
	"github.com/platinummonkey/snippetgen/pkg/schema"
	"github.com/platinummonkey/snippetgen/pkg/snippet"
)

// Generator orchestrates snippet generation with an injected cache.
//
// Use NewGenerator to create instances; the zero value has no cache or
// logger wired. Cache and metrics are both optional.
type Generator struct {
	cache   Cache
	metrics *observability.Metrics
	log     *logrus.Logger
}

// NewGenerator creates a generator. cache and metrics may be nil, in
// which case caching and metric recording are skipped.
func NewGenerator(cache Cache, metrics *observability.Metrics, log *logrus.Logger) *Generator {
	if log == nil {
		log = logrus.New()
	}
	return &Generator{cache: cache, metrics: metrics, log: log}
}

// Generate produces one snippet for the request's variant.
func (g *Generator) Generate(ctx context.Context, req *Request, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	startTime := time.Now()

	// Check cache if enabled
	var cacheKey *CacheKey
	if config.EnableCache && g.cache != nil {
		cacheKey = GenerateCacheKey(req)
		if cached, err := g.cache.Get(ctx, cacheKey); err == nil {
			hit := *cached
			hit.CacheHit = true
			hit.Duration = time.Since(startTime)
			if g.metrics != nil {
				g.metrics.CacheHitsTotal.WithLabelValues("generator").Inc()
			}
			return &hit, nil
		} else if err != ErrCacheMiss {
			g.log.WithError(err).Warn("cache lookup failed")
		}
		if g.metrics != nil {
			g.metrics.CacheMissesTotal.WithLabelValues("generator").Inc()
		}
	}

	result, err := g.generate(req)
	if g.metrics != nil {
		g.metrics.ObserveGeneration(req.Variant(), err, time.Since(startTime))
	}
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(startTime)

	if cacheKey != nil {
		if err := g.cache.Set(ctx, cacheKey, result); err != nil {
			g.log.WithError(err).Warn("failed to cache generation result")
		}
	}

	return result, nil
}

// generate builds and renders the configured snippet.
func (g *Generator) generate(req *Request) (*Result, error) {
	if req.Schema != nil {
		if err := checkSchema(req.Schema, req.Config); err != nil {
			return nil, err
		}
	}

	cs := snippet.NewConfiguredSnippet(req.Schema, req.Config, req.APIVersion, req.Sync)
	if err := cs.Generate(); err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	regionTag, err := cs.RegionTag()
	if err != nil {
		return nil, err
	}
	filename, err := cs.Filename()
	if err != nil {
		return nil, err
	}

	return &Result{
		RegionTag: regionTag,
		Filename:  filename,
		Code:      cs.Code(),
		Sync:      req.Sync,
	}, nil
}

// GenerateAll produces the sync and async variants for every
// configuration, fanning out across a bounded worker pool. Results are
// ordered [cfg0 sync, cfg0 async, cfg1 sync, ...]; on error the partial
// results are returned alongside it.
func (g *Generator) GenerateAll(ctx context.Context, apiSchema *schema.API, configs []*snippet.Config, apiVersion string, config *Config) ([]*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("no configurations provided")
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(config.MaxWorkers)

	results := make([]*Result, len(configs)*2)
	for i, cfg := range configs {
		for j, sync := range []bool{true, false} {
			idx := i*2 + j
			req := &Request{
				Schema:     apiSchema,
				Config:     cfg,
				APIVersion: apiVersion,
				Sync:       sync,
			}
			eg.Go(func() error {
				result, err := g.Generate(ctx, req, config)
				results[idx] = result
				return err
			})
		}
	}

	if err := eg.Wait(); err != nil {
		// Return partial results even if some failed
		return results, err
	}

	return results, nil
}

// validateRequest validates a generation request
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("request cannot be nil")
	}
	if req.Config == nil {
		return fmt.Errorf("snippet configuration is required")
	}
	if req.APIVersion == "" {
		return fmt.Errorf("api version is required")
	}
	return nil
}

// checkSchema verifies the configured service and RPC exist in the
// schema. Fields the core would reject anyway are left to it.
func checkSchema(apiSchema *schema.API, cfg *snippet.Config) error {
	if cfg.Rpc == nil || cfg.Rpc.ServiceName == "" || cfg.Rpc.RpcName == "" {
		return nil
	}
	if !apiSchema.HasService(cfg.Rpc.ServiceName) {
		return fmt.Errorf("service %s not found in schema", cfg.Rpc.ServiceName)
	}
	if !apiSchema.HasRPC(cfg.Rpc.ServiceName, cfg.Rpc.RpcName) {
		return fmt.Errorf("rpc %s not found in service %s", cfg.Rpc.RpcName, cfg.Rpc.ServiceName)
	}
	return nil
}
