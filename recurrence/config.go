package recurrence

import "time"

// HighThroughputCacheConfig favors a longer TTL and more entries for
// high-traffic scenarios, at the cost of memory.
var HighThroughputCacheConfig = CacheConfig{
	TTL:             30 * time.Minute,
	MaxEntries:      5000,
	CleanupInterval: 10 * time.Minute,
}

// LowMemoryCacheConfig trades cache hit rate for a smaller footprint.
var LowMemoryCacheConfig = CacheConfig{
	TTL:             5 * time.Minute,
	MaxEntries:      100,
	CleanupInterval: 2 * time.Minute,
}
