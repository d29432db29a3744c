package cache

import "time"

// Cache defines the interface for caching rendered glosses
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// AnalysisKey generates a cache key for a word analysis.
// The word is used as given: analyses echo the original casing.
func AnalysisKey(word string) string {
	return "arcaxh:v1:analyze:" + word
}
