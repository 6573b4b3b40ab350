package service

import (
	"sync"
	"time"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
)

// nonceCache is a bounded, TTL-based single-use nonce store. Entries expire
// with their capability, so the cache never needs to remember a nonce longer
// than the capability it belongs to. When full, the entry closest to expiry
// is evicted; memory stays bounded at maxEntries.
type nonceCache struct {
	mu         sync.Mutex
	entries    map[string]time.Time
	maxEntries int
	now        func() time.Time
}

// NewNonceCache creates a NonceCache holding at most maxEntries nonces.
func NewNonceCache(maxEntries int) NonceCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &nonceCache{
		entries:    make(map[string]time.Time),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Consume marks the nonce as used until expiresAt.
func (c *nonceCache) Consume(nonce string, expiresAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	if expiry, ok := c.entries[nonce]; ok {
		if now.Before(expiry) {
			return authDomain.ErrNonceReplayed
		}
		// The previous entry expired together with its capability; the nonce
		// can only belong to a capability that is itself expired now, so
		// reuse of the map slot is safe.
		delete(c.entries, nonce)
	}

	if len(c.entries) >= c.maxEntries {
		c.evict(now)
	}

	c.entries[nonce] = expiresAt
	return nil
}

// evict drops all expired entries; if none were expired, drops the entry
// closest to expiry so the newcomer always fits.
func (c *nonceCache) evict(now time.Time) {
	var (
		soonest    string
		soonestExp time.Time
		dropped    bool
	)

	for nonce, expiry := range c.entries {
		if !expiry.After(now) {
			delete(c.entries, nonce)
			dropped = true
			continue
		}
		if soonest == "" || expiry.Before(soonestExp) {
			soonest = nonce
			soonestExp = expiry
		}
	}

	if !dropped && soonest != "" {
		delete(c.entries, soonest)
	}
}
