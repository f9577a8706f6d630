package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"miqat/internal/cache"
	"miqat/internal/config"
	"miqat/internal/geo"
	"miqat/internal/method"
	"miqat/internal/prayer"
	"miqat/internal/store"
)

// session bundles everything a command needs to produce prayer times:
// the merged config, the validated solver config, the cache, and the
// resolved location. Built once per invocation via newSession.
type session struct {
	cfg       *config.Config
	prayerCfg prayer.Config
	cache     *cache.Cache
	store     store.Store
	location  geo.Location
	timeFmt   string // Go time layout, derived from time_format
}

// newSession resolves location, builds the solver config and opens the
// cache backend for the current invocation. Callers must Close it.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg := effectiveConfig(cmd)

	goTimeFmt := "15:04"
	if cfg.TimeFormat == "12h" {
		goTimeFmt = "3:04 PM"
	}

	loc, err := resolveLocation(cfg)
	if err != nil {
		return nil, err
	}

	prayerCfg, err := buildPrayerConfig(cfg, loc)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:       cfg,
		prayerCfg: prayerCfg,
		location:  *loc,
		timeFmt:   goTimeFmt,
	}

	if !FlagNoCache {
		st, err := openStore(cfg)
		if err != nil {
			// Cache init failure is non-fatal; we just skip caching.
			log.Debug().Err(err).Msg("cache disabled")
			fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
		} else {
			s.store = st
			s.cache = cache.New(st, log)
		}
	}

	return s, nil
}

// Close releases the cache backend, if any.
func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Debug().Err(err).Msg("failed to close cache store")
		}
	}
}

// solveDay returns the prayer times for the given date, consulting the
// cache first and populating it on a fresh solve.
func (s *session) solveDay(date time.Time) (prayer.Times, error) {
	if s.cache != nil {
		if times, ok := s.cache.Get(date, s.prayerCfg); ok {
			return times, nil
		}
	}

	times, err := prayer.Solve(date, s.prayerCfg)
	if err != nil {
		return prayer.Times{}, err
	}

	if s.cache != nil {
		s.cache.Put(date, s.prayerCfg, times)
	}
	return times, nil
}

// baseDate returns the date to solve for: --date if set, today otherwise.
// The returned time carries the solver config's timezone.
func (s *session) baseDate() (time.Time, error) {
	if FlagDate == "" {
		return time.Now().In(s.prayerCfg.Location()), nil
	}
	d, err := time.ParseInLocation("2006-01-02", FlagDate, s.prayerCfg.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", FlagDate)
	}
	return d, nil
}

// selectedPrayers returns the event names to display, honoring the
// prayers config key. Defaults to all six events.
func (s *session) selectedPrayers() []string {
	if s.cfg.Prayers == "" {
		return prayer.Names
	}
	names := strings.Split(s.cfg.Prayers, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	return names
}

// locationLabel builds a human-readable location string: "City, Country"
// when geo-detection supplied them, coordinates otherwise.
func (s *session) locationLabel() string {
	if s.location.City != "" && s.location.Country != "" {
		return s.location.City + ", " + s.location.Country
	}
	return fmt.Sprintf("%.4f, %.4f", s.location.Latitude, s.location.Longitude)
}

// resolveLocation picks a location provider based on the merged config.
// Priority: explicit coordinates (flags or config) > IP auto-detection.
func resolveLocation(cfg *config.Config) (*geo.Location, error) {
	var provider geo.Provider
	if cfg.Latitude != nil && cfg.Longitude != nil {
		provider = geo.Static{Location: geo.Location{
			Latitude:  *cfg.Latitude,
			Longitude: *cfg.Longitude,
			Timezone:  cfg.Timezone,
		}}
	} else {
		log.Debug().Msg("no coordinates configured, auto-detecting via IP")
		provider = geo.NewIPLocator()
	}

	loc, err := provider.Locate()
	if err != nil {
		return nil, fmt.Errorf("cannot determine location: %w (set latitude/longitude via flags or config)", err)
	}

	// An explicit timezone always wins over the provider's.
	if cfg.Timezone != "" {
		loc.Timezone = cfg.Timezone
	}
	if loc.Timezone == "" {
		return nil, fmt.Errorf("cannot determine timezone: set it via --timezone or config")
	}

	return loc, nil
}

// buildPrayerConfig turns the merged config and resolved location into a
// validated solver config.
func buildPrayerConfig(cfg *config.Config, loc *geo.Location) (prayer.Config, error) {
	coord, err := prayer.NewCoordinate(loc.Latitude, loc.Longitude)
	if err != nil {
		return prayer.Config{}, err
	}

	m := cfg.MethodOrDefault()
	madhab := cfg.MadhabOrDefault()

	var pc prayer.Config
	if m == method.Custom {
		if cfg.FajrAngle == nil {
			return prayer.Config{}, fmt.Errorf("method custom requires fajr_angle (set via --fajr-angle or config)")
		}
		var ishaAngle float64
		if cfg.IshaAngle != nil {
			ishaAngle = *cfg.IshaAngle
		}
		var ishaInterval int
		if cfg.IshaInterval != nil {
			ishaInterval = *cfg.IshaInterval
		}
		pc, err = prayer.NewCustomConfig(*cfg.FajrAngle, ishaAngle, ishaInterval, madhab, coord, loc.Timezone)
	} else {
		pc, err = prayer.NewConfig(m, madhab, coord, loc.Timezone)
	}
	if err != nil {
		return prayer.Config{}, err
	}

	if cfg.HighLat != "" {
		rule, err := method.ParseHighLatRule(cfg.HighLat)
		if err != nil {
			return prayer.Config{}, err
		}
		pc = pc.WithHighLatRule(rule)
	}

	return pc, nil
}

// openStore opens the configured cache backend.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.CacheBackend {
	case config.BackendSQLite:
		dir := cfg.CacheDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("cannot determine home directory: %w", err)
			}
			dir = filepath.Join(home, ".cache", "miqat")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
		}
		return store.NewSQLiteStore(filepath.Join(dir, "cache.db"))
	default:
		return store.NewFileStore(cfg.CacheDir)
	}
}
