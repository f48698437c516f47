package models

import "time"

// CacheEntry stores the result of a translated prompt.
type CacheEntry struct {
	PromptKey string    `json:"prompt_key"`
	Prompt    string    `json:"prompt"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

// Age returns how old the entry is at now.
func (e CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// Expired reports whether the entry is stale at now. An entry whose age
// equals ttl is expired.
func (e CacheEntry) Expired(now time.Time, ttl time.Duration) bool {
	return e.Age(now) >= ttl
}

// CacheStats reports cache performance metrics.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}
