package domain

// CacheEntry is the persisted transform of one module.
// It is usable only while Key matches the hash of the module's current bytes
// and every reference still resolves to the recorded path. Requires holds
// every literal call site, excluded and unresolved ones included.
type CacheEntry struct {
	Source   string       `json:"source"`
	Map      *SourceMap   `json:"map,omitempty"`
	Requires []RequireRef `json:"requires"`
	Key      string       `json:"key"`
}
