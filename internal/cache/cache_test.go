package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miqat/internal/method"
	"miqat/internal/prayer"
	"miqat/internal/store"
)

func testConfig(t *testing.T) prayer.Config {
	t.Helper()
	cfg, err := prayer.NewConfig(method.MuslimWorldLeague, method.Shafi,
		prayer.Coordinate{Latitude: 21.4225, Longitude: 39.8262}, "Asia/Riyadh")
	require.NoError(t, err)
	return cfg
}

func testTimes(loc *time.Location) prayer.Times {
	mk := func(h, m int) time.Time {
		return time.Date(2024, 1, 15, h, m, 0, 0, loc)
	}
	return prayer.Times{
		Date:    "2024-01-15",
		Fajr:    mk(5, 42),
		Sunrise: mk(7, 0),
		Dhuhr:   mk(12, 30),
		Asr:     mk(15, 37),
		Maghrib: mk(17, 58),
		Isha:    mk(19, 12),
	}
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return New(fs, zerolog.Nop())
}

// withClock pins the package clock for the duration of a test.
func withClock(t *testing.T, fixed time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = orig })
}

func TestCache_PutGet(t *testing.T) {
	c := newTestCache(t)
	cfg := testConfig(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, cfg.Location())
	times := testTimes(cfg.Location())

	c.Put(date, cfg, times)

	got, ok := c.Get(date, cfg)
	require.True(t, ok, "expected cache hit after put")
	assert.Equal(t, times.Date, got.Date)
	assert.True(t, got.Fajr.Equal(times.Fajr))
	assert.True(t, got.Isha.Equal(times.Isha))
}

func TestCache_MissOnEmptyStore(t *testing.T) {
	c := newTestCache(t)
	cfg := testConfig(t)

	_, ok := c.Get(time.Date(2024, 1, 15, 0, 0, 0, 0, cfg.Location()), cfg)
	assert.False(t, ok)
}

func TestCache_KeySeparatesDates(t *testing.T) {
	c := newTestCache(t)
	cfg := testConfig(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, cfg.Location())

	c.Put(date, cfg, testTimes(cfg.Location()))

	_, ok := c.Get(date.AddDate(0, 0, 1), cfg)
	assert.False(t, ok, "next day must not hit the previous day's entry")
}

func TestCache_KeySeparatesConfigs(t *testing.T) {
	c := newTestCache(t)
	cfg := testConfig(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, cfg.Location())
	c.Put(date, cfg, testTimes(cfg.Location()))

	hanafi, err := prayer.NewConfig(method.MuslimWorldLeague, method.Hanafi,
		cfg.Coordinate, cfg.Timezone)
	require.NoError(t, err)
	_, ok := c.Get(date, hanafi)
	assert.False(t, ok, "different madhab must be a different key")

	isna, err := prayer.NewConfig(method.ISNA, method.Shafi, cfg.Coordinate, cfg.Timezone)
	require.NoError(t, err)
	_, ok = c.Get(date, isna)
	assert.False(t, ok, "different method must be a different key")
}

func TestCache_CoordinateRounding(t *testing.T) {
	c := newTestCache(t)
	cfg := testConfig(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, cfg.Location())
	c.Put(date, cfg, testTimes(cfg.Location()))

	// A few meters of GPS jitter rounds to the same 4-decimal coordinate.
	jitter, err := prayer.NewConfig(method.MuslimWorldLeague, method.Shafi,
		prayer.Coordinate{Latitude: 21.42252, Longitude: 39.82618}, cfg.Timezone)
	require.NoError(t, err)
	_, ok := c.Get(date, jitter)
	assert.True(t, ok, "jittered coordinate should hit the same entry")

	// A genuinely different coordinate does not.
	elsewhere, err := prayer.NewConfig(method.MuslimWorldLeague, method.Shafi,
		prayer.Coordinate{Latitude: 21.43, Longitude: 39.83}, cfg.Timezone)
	require.NoError(t, err)
	_, ok = c.Get(date, elsewhere)
	assert.False(t, ok)
}

func TestCache_ExpiredEntryIsMiss(t *testing.T) {
	c := newTestCache(t)
	cfg := testConfig(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, cfg.Location())

	created := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	withClock(t, created)
	c.Put(date, cfg, testTimes(cfg.Location()))

	// Fresh enough the next week.
	withClock(t, created.AddDate(0, 0, 7))
	_, ok := c.Get(date, cfg)
	assert.True(t, ok)

	// A miss once past the retention window.
	withClock(t, created.AddDate(0, 0, 31))
	_, ok = c.Get(date, cfg)
	assert.False(t, ok)
}

func TestCache_Cleanup(t *testing.T) {
	c := newTestCache(t)
	cfg := testConfig(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Two old entries and one fresh one.
	withClock(t, base.AddDate(0, 0, -40))
	c.Put(time.Date(2024, 1, 20, 0, 0, 0, 0, cfg.Location()), cfg, testTimes(cfg.Location()))
	c.Put(time.Date(2024, 1, 21, 0, 0, 0, 0, cfg.Location()), cfg, testTimes(cfg.Location()))

	withClock(t, base.AddDate(0, 0, -1))
	fresh := time.Date(2024, 2, 29, 0, 0, 0, 0, cfg.Location())
	c.Put(fresh, cfg, testTimes(cfg.Location()))

	withClock(t, base)
	removed := c.Cleanup(0)
	assert.Equal(t, 2, removed)

	// The fresh entry survives.
	_, ok := c.Get(fresh, cfg)
	assert.True(t, ok)

	// Running again removes nothing.
	assert.Equal(t, 0, c.Cleanup(0))
}

func TestCache_CleanupCustomRetention(t *testing.T) {
	c := newTestCache(t)
	cfg := testConfig(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	withClock(t, base.Add(-48*time.Hour))
	c.Put(time.Date(2024, 2, 28, 0, 0, 0, 0, cfg.Location()), cfg, testTimes(cfg.Location()))

	withClock(t, base)
	assert.Equal(t, 0, c.Cleanup(72*time.Hour))
	assert.Equal(t, 1, c.Cleanup(24*time.Hour))
}

// failingStore errors on every operation.
type failingStore struct{}

func (failingStore) Load(string) ([]byte, error) { return nil, errors.New("disk unavailable") }
func (failingStore) Save(string, []byte) error   { return errors.New("disk unavailable") }
func (failingStore) Delete(string) error         { return errors.New("disk unavailable") }
func (failingStore) Keys() ([]string, error)     { return nil, errors.New("disk unavailable") }
func (failingStore) Close() error                { return nil }

func TestCache_StoreFailuresAreSwallowed(t *testing.T) {
	c := New(failingStore{}, zerolog.Nop())
	cfg := testConfig(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, cfg.Location())

	// None of these panic or return errors; Get is simply a miss.
	c.Put(date, cfg, testTimes(cfg.Location()))
	_, ok := c.Get(date, cfg)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Cleanup(0))
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	c := New(fs, zerolog.Nop())
	cfg := testConfig(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, cfg.Location())

	c.Put(date, cfg, testTimes(cfg.Location()))

	// Corrupt every stored entry behind the cache's back.
	keys, err := fs.Keys()
	require.NoError(t, err)
	for _, k := range keys {
		require.NoError(t, fs.Save(k, []byte("not json")))
	}

	_, ok := c.Get(date, cfg)
	assert.False(t, ok)

	// Cleanup treats corrupt entries as stale and removes them.
	assert.Equal(t, len(keys), c.Cleanup(0))
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := newTestCache(t)
	cfg := testConfig(t)
	times := testTimes(cfg.Location())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for d := 0; d < 20; d++ {
				date := time.Date(2024, 1, 1+d, 0, 0, 0, 0, cfg.Location())
				switch n % 3 {
				case 0:
					c.Put(date, cfg, times)
				case 1:
					c.Get(date, cfg)
				default:
					c.Cleanup(0)
				}
			}
		}(i)
	}
	wg.Wait()
}
