package request

import (
	"sync"
	"time"
)

// cacheRetention is the 5-second retention window spec.md §4.5 specifies
// for the responder-side at-most-once response cache.
const cacheRetention = 5 * time.Second

// cacheKey identifies one responder-side cached response.
type cacheKey struct {
	peer      string
	requestID int32
}

type cacheEntry struct {
	fingerprint string
	response    []byte
	deadline    time.Time
}

// ResponseCache is the responder-side at-most-once cache keyed by
// (peer, request-id): a repeat request whose fingerprint matches a live
// entry is answered from cache without re-running handlers, preserving
// at-most-once set semantics across client retransmission (spec.md §4.5,
// testable property 7).
type ResponseCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	now     func() time.Time
}

// NewResponseCache returns an empty cache using wall-clock time.
func NewResponseCache() *ResponseCache {
	return &ResponseCache{entries: make(map[cacheKey]cacheEntry), now: time.Now}
}

// Lookup returns the cached response for (peer, requestID) if present,
// unexpired, and its fingerprint matches the incoming request's.
func (c *ResponseCache) Lookup(peer string, requestID int32, fingerprint string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey{peer, requestID}
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.deadline) {
		delete(c.entries, key)
		return nil, false
	}
	if e.fingerprint != fingerprint {
		return nil, false
	}
	return e.response, true
}

// Store records a processed request's fingerprint and encoded response.
func (c *ResponseCache) Store(peer string, requestID int32, fingerprint string, response []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{peer, requestID}] = cacheEntry{
		fingerprint: fingerprint,
		response:    response,
		deadline:    c.now().Add(cacheRetention),
	}
}

// ClearOnSet discards every cache entry for peer. spec.md §4.5: "the
// cache is cleared on every incoming set before processing" — a fresh set
// from the same peer must never be answered from a stale cached reply for
// a different request.
func (c *ResponseCache) ClearOnSet(peer string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.peer == peer {
			delete(c.entries, k)
		}
	}
}
