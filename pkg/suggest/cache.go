package suggest

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
)

// HotCache keeps ranked results for recently typed prefixes. When full,
// the least recently used prefix is evicted.
type HotCache struct {
	results     map[string][]Suggestion
	accessTime  map[string]int64
	accessCount int64
	hits        int
	maxPrefixes int
	mu          sync.Mutex
}

func NewHotCache(maxPrefixes int) *HotCache {
	return &HotCache{
		results:     make(map[string][]Suggestion, maxPrefixes),
		accessTime:  make(map[string]int64, maxPrefixes),
		maxPrefixes: maxPrefixes,
	}
}

// Get returns the cached ranking for lowerPrefix. The slice must not be
// modified.
func (hc *HotCache) Get(lowerPrefix string) ([]Suggestion, bool) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	results, ok := hc.results[lowerPrefix]
	if !ok {
		return nil, false
	}
	hc.hits++
	hc.markAccessed(lowerPrefix)
	return results, true
}

func (hc *HotCache) Put(lowerPrefix string, results []Suggestion) {
	if hc.maxPrefixes <= 0 {
		return
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if _, exists := hc.results[lowerPrefix]; !exists && len(hc.results) >= hc.maxPrefixes {
		hc.evictLRU()
	}
	hc.results[lowerPrefix] = results
	hc.markAccessed(lowerPrefix)
}

// Clear drops every cached prefix.
func (hc *HotCache) Clear() {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	clear(hc.results)
	clear(hc.accessTime)
}

func (hc *HotCache) Stats() map[string]int {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return map[string]int{
		"hotCachePrefixes": len(hc.results),
		"maxHotPrefixes":   hc.maxPrefixes,
		"hotCacheHits":     hc.hits,
	}
}

func (hc *HotCache) markAccessed(prefix string) {
	hc.accessCount++
	hc.accessTime[prefix] = hc.accessCount
}

func (hc *HotCache) evictLRU() {
	var oldestPrefix string
	var oldestTime int64 = math.MaxInt64

	for prefix, accessTime := range hc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestPrefix = prefix
		}
	}

	if oldestPrefix != "" {
		delete(hc.results, oldestPrefix)
		delete(hc.accessTime, oldestPrefix)
		log.Debugf("Evicted prefix '%s' from hot cache", oldestPrefix)
	}
}
