/*
Package roster caches the advisory list of known joined users.

The cache is process-wide, shared across all sessions: roster data is
presence display only, never security-sensitive. A snapshot younger than the
TTL is served as-is without touching the store; a failed refresh degrades to
the last good snapshot rather than throwing the consumer into an error state.
*/
package roster

import (
	"context"
	"sync"
	"time"

	"emberchat/internal/app/store"
	"emberchat/internal/pkg/logx"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

const rosterKey = "roster"

// Cache is a TTL-bounded snapshot of the profile collection.
type Cache struct {
	profiles store.ProfileStore
	cache    *gocache.Cache
	logger   zerolog.Logger

	// mu guards stale, the fallback snapshot served when a refresh fails.
	mu    sync.Mutex
	stale []store.Profile
}

// New creates a roster cache over the given profile store with the given TTL.
func New(profiles store.ProfileStore, ttl time.Duration) *Cache {
	return &Cache{
		profiles: profiles,
		cache:    gocache.New(ttl, 2*ttl),
		logger:   logx.Logger().With().Str("component", "roster").Logger(),
	}
}

// Users returns the cached snapshot when it is younger than the TTL,
// refreshing from the store otherwise. A failed refresh returns the previous
// snapshot together with the error; callers keep rendering stale data.
func (c *Cache) Users(ctx context.Context) ([]store.Profile, error) {
	if cached, ok := c.cache.Get(rosterKey); ok {
		return cached.([]store.Profile), nil
	}

	fresh, err := c.profiles.List(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Roster refresh failed. Serving stale snapshot.")

		c.mu.Lock()
		defer c.mu.Unlock()
		return c.stale, err
	}

	c.cache.Set(rosterKey, fresh, gocache.DefaultExpiration)

	c.mu.Lock()
	c.stale = fresh
	c.mu.Unlock()

	return fresh, nil
}

// WithoutSelf returns the profiles with the caller's own entry filtered out.
// Self-exclusion is a display concern; the cached data always contains
// every known user.
func WithoutSelf(profiles []store.Profile, userID string) []store.Profile {
	out := make([]store.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.UserID == userID {
			continue
		}
		out = append(out, p)
	}
	return out
}
