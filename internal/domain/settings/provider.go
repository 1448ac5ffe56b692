package settings

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/pricing"
)

// DefaultTTL bounds how stale the cached fee configuration may be.
// Settings edits from another process become visible within this window.
const DefaultTTL = 5 * time.Minute

// CachedProvider serves the current fee configuration with a time-based
// cache in front of the Store. A fetch failure yields pricing.Defaults()
// instead of an error: checkout must always produce a total.
type CachedProvider struct {
	store Store
	lg    *zap.Logger
	ttl   time.Duration
	now   func() time.Time

	sf singleflight.Group

	mu        sync.Mutex
	cached    pricing.FeeConfig
	fetchedAt time.Time
	valid     bool
}

// NewCachedProvider creates a provider with the given TTL. A zero ttl
// selects DefaultTTL.
func NewCachedProvider(store Store, lg *zap.Logger, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedProvider{
		store: store,
		lg:    lg,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Fees returns the current fee configuration, serving from cache while it
// is fresh. Errors are absorbed: the hardcoded defaults are returned and
// the failure is logged.
func (p *CachedProvider) Fees(ctx context.Context) pricing.FeeConfig {
	p.mu.Lock()
	if p.valid && p.now().Sub(p.fetchedAt) < p.ttl {
		cfg := p.cached
		p.mu.Unlock()
		return cfg
	}
	p.mu.Unlock()

	// Concurrent checkouts on an expired cache share one settings query.
	v, err, _ := p.sf.Do("fees", func() (any, error) {
		r, err := p.store.Get(ctx)
		if err != nil {
			return nil, err
		}
		cfg := r.FeeConfig()
		p.mu.Lock()
		p.cached = cfg
		p.fetchedAt = p.now()
		p.valid = true
		p.mu.Unlock()
		return cfg, nil
	})
	if err != nil {
		p.lg.Warn("settings fetch failed, using default fees", zap.Error(err))
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.valid {
			// A stale cached value beats the hardcoded defaults.
			return p.cached
		}
		return pricing.Defaults()
	}
	return v.(pricing.FeeConfig)
}

// Invalidate drops the cached value so the next Fees call re-fetches.
// Called after a local settings update; other processes wait out the TTL.
func (p *CachedProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.valid = false
}
