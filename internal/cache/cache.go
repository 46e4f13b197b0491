package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"property-financing/internal/config"
	"property-financing/internal/model"
)

// DefaultTTL applies when NewResultCache is given a non-positive TTL.
const DefaultTTL = 10 * time.Minute

type entry struct {
	result    model.ScenarioResult
	expiresAt time.Time
}

// ResultCache memoises evaluation results keyed by a hash of the scenario.
// A nil *ResultCache is valid and caches nothing.
type ResultCache struct {
	mu    sync.RWMutex
	store map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{
		store: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns a cached result if present and not expired.
func (c *ResultCache) Get(key string) (model.ScenarioResult, bool) {
	if c == nil || key == "" {
		return model.ScenarioResult{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.store[key]
	if !ok || c.now().After(e.expiresAt) {
		return model.ScenarioResult{}, false
	}
	return e.result, true
}

func (c *ResultCache) Set(key string, r model.ScenarioResult) {
	if c == nil || key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = entry{result: r, expiresAt: c.now().Add(c.ttl)}
}

// Len counts entries, expired ones included until the next Prune.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *ResultCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]entry)
}

// Prune drops expired entries and reports how many were removed.
func (c *ResultCache) Prune() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for k, e := range c.store {
		if now.After(e.expiresAt) {
			delete(c.store, k)
			n++
		}
	}
	return n
}

// Run prunes on every tick until ctx is done.
func (c *ResultCache) Run(ctx context.Context, every time.Duration) {
	if c == nil {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Prune()
		}
	}
}

// Key hashes the wire form of a scenario together with the label it is evaluated
// under. Map fields encode in sorted order, so equal scenarios share a key.
// A scenario that cannot be encoded (NaN read from YAML) gets the empty key,
// which Get and Set ignore.
func Key(label string, s config.Scenario) string {
	raw, err := json.Marshal(struct {
		Label    string          `json:"label"`
		Scenario config.Scenario `json:"scenario"`
	}{label, s})
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(raw)
	return hex.EncodeToString(hash[:])
}
