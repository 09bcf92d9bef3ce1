package generator

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/platinummonkey/snippetgen/pkg/snippet"
)

// GenerateCacheKey builds a deterministic cache key for a request. All
// consumed configuration fields are hashed in a fixed order with NUL
// separators; changing the field order invalidates existing caches.
func GenerateCacheKey(req *Request) *CacheKey {
	key := &CacheKey{
		APIVersion: req.APIVersion,
		Variant:    req.Variant(),
		ConfigHash: hashConfig(req.Config),
	}
	if req.Config != nil && req.Config.Rpc != nil {
		key.Service = req.Config.Rpc.ServiceName
		key.Rpc = req.Config.Rpc.RpcName
	}
	if req.Config != nil && req.Config.Metadata != nil {
		key.ConfigID = req.Config.Metadata.ConfigID
	}
	return key
}

func hashConfig(cfg *snippet.Config) string {
	hasher := sha256.New()
	sep := []byte{0}

	write := func(s string) {
		hasher.Write([]byte(s))
		hasher.Write(sep)
	}

	if cfg != nil {
		if cfg.Rpc != nil {
			write(cfg.Rpc.ProtoPackage)
			write(cfg.Rpc.ServiceName)
			write(cfg.Rpc.RpcName)
		}
		if cfg.Metadata != nil {
			write(cfg.Metadata.ConfigID)
		}
		if cfg.Signature != nil {
			write(cfg.Signature.SnippetMethodName)
			for _, p := range cfg.Signature.Parameters {
				write(p.Name)
				write(p.Type)
			}
		}
		if cfg.ServiceEndpoint != nil {
			write(cfg.ServiceEndpoint.Host)
			write(cfg.ServiceEndpoint.Region)
		}
	}

	return hex.EncodeToString(hasher.Sum(nil))
}
