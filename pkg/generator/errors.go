package generator

import "errors"

var (
	// ErrCacheMiss is returned when a cache key is not found
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidCacheKey is returned when a cache key is invalid
	ErrInvalidCacheKey = errors.New("invalid cache key")

	// ErrCacheUnavailable is returned when no cache tier is configured
	ErrCacheUnavailable = errors.New("cache unavailable")
)
