// Package cache avoids recomputing prayer times for (date, config) pairs
// already solved. It is a pure optimization layer: every failure of the
// backing store is logged and treated as a miss, never surfaced to the
// caller.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"miqat/internal/prayer"
	"miqat/internal/store"
)

// DefaultRetention is how long entries live before Cleanup removes them.
const DefaultRetention = 30 * 24 * time.Hour

// coordPrecision is the decimal precision coordinates are rounded to before
// hashing: 4 places is roughly 11 meters, enough that GPS jitter between
// runs still hits the same entry.
const coordPrecision = "%.4f"

// now is stubbed in tests.
var now = time.Now

// Entry is the stored value: the solved times plus the creation timestamp
// used for expiry.
type Entry struct {
	Date      string       `json:"date"` // YYYY-MM-DD
	Times     prayer.Times `json:"times"`
	CreatedAt time.Time    `json:"created_at"`
}

// Cache wraps a Store with keying, expiry and serialization. All methods
// are safe for concurrent use; a single mutex serializes store access so a
// Cleanup cannot interleave with a Put.
type Cache struct {
	mu        sync.RWMutex
	store     store.Store
	log       zerolog.Logger
	retention time.Duration
}

// New creates a Cache over the given store with the default retention.
func New(s store.Store, log zerolog.Logger) *Cache {
	return &Cache{
		store:     s,
		log:       log.With().Str("component", "cache").Logger(),
		retention: DefaultRetention,
	}
}

// key builds a deterministic hash from every input that affects the solved
// times. Custom angles are included so two custom configs with different
// angles never collide.
func key(date string, cfg prayer.Config) string {
	raw := fmt.Sprintf("%s|"+coordPrecision+"|"+coordPrecision+"|%s|%s|%g|%g|%d|%s",
		date,
		cfg.Coordinate.Latitude, cfg.Coordinate.Longitude,
		cfg.Method, cfg.Madhab,
		cfg.Params.FajrAngle, cfg.Params.IshaAngle, cfg.Params.IshaInterval,
		cfg.Timezone)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8])
}

// dateKey formats the calendar date in the config's timezone.
func dateKey(date time.Time, cfg prayer.Config) string {
	return date.In(cfg.Location()).Format("2006-01-02")
}

// Get returns the cached times for (date, config), if present and younger
// than the retention window. The boolean reports a hit.
func (c *Cache) Get(date time.Time, cfg prayer.Config) (prayer.Times, bool) {
	ds := dateKey(date, cfg)
	k := key(ds, cfg)

	c.mu.RLock()
	data, err := c.store.Load(k)
	c.mu.RUnlock()
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.log.Debug().Err(err).Str("key", k).Msg("cache load failed, treating as miss")
		}
		return prayer.Times{}, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.log.Debug().Err(err).Str("key", k).Msg("corrupt cache entry, treating as miss")
		return prayer.Times{}, false
	}

	if entry.Date != ds {
		return prayer.Times{}, false
	}
	if now().Sub(entry.CreatedAt) > c.retention {
		return prayer.Times{}, false
	}

	return entry.Times, true
}

// Put stores the solved times for (date, config), stamped with the current
// time. Store errors are swallowed.
func (c *Cache) Put(date time.Time, cfg prayer.Config, times prayer.Times) {
	ds := dateKey(date, cfg)
	k := key(ds, cfg)

	entry := Entry{Date: ds, Times: times, CreatedAt: now()}
	data, err := json.Marshal(entry)
	if err != nil {
		c.log.Debug().Err(err).Str("key", k).Msg("cache marshal failed, skipping put")
		return
	}

	c.mu.Lock()
	err = c.store.Save(k, data)
	c.mu.Unlock()
	if err != nil {
		c.log.Debug().Err(err).Str("key", k).Msg("cache save failed, skipping put")
	}
}

// Cleanup removes every entry older than the given retention window and
// returns the number removed. A zero retention uses the default. Intended
// to run once per process, not on every lookup. Idempotent; an error on one
// entry only skips that entry.
func (c *Cache) Cleanup(retention time.Duration) int {
	if retention <= 0 {
		retention = DefaultRetention
	}
	cutoff := now().Add(-retention)

	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.store.Keys()
	if err != nil {
		c.log.Debug().Err(err).Msg("cache cleanup could not list keys")
		return 0
	}

	removed := 0
	for _, k := range keys {
		data, err := c.store.Load(k)
		if err != nil {
			continue
		}

		var entry Entry
		stale := json.Unmarshal(data, &entry) != nil || entry.CreatedAt.Before(cutoff)
		if !stale {
			continue
		}

		if err := c.store.Delete(k); err != nil {
			c.log.Debug().Err(err).Str("key", k).Msg("cache cleanup delete failed")
			continue
		}
		removed++
	}

	c.log.Debug().Int("removed", removed).Msg("cache cleanup finished")
	return removed
}
