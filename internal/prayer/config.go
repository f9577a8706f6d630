package prayer

import (
	"fmt"
	"time"

	"miqat/internal/method"
)

// Coordinate is a geographic position in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinate validates and builds a Coordinate.
func NewCoordinate(latitude, longitude float64) (Coordinate, error) {
	if latitude < -90 || latitude > 90 {
		return Coordinate{}, fmt.Errorf("%w: latitude %.4f out of range [-90, 90]", ErrInvalidConfig, latitude)
	}
	if longitude < -180 || longitude > 180 {
		return Coordinate{}, fmt.Errorf("%w: longitude %.4f out of range [-180, 180]", ErrInvalidConfig, longitude)
	}
	return Coordinate{Latitude: latitude, Longitude: longitude}, nil
}

// Config fully determines the prayer times for a calendar date. It is an
// immutable value: two field-wise equal configs always solve to identical
// results, which is what makes caching by config sound.
type Config struct {
	Method     method.Method
	Params     method.Params
	Madhab     method.Madhab
	Coordinate Coordinate
	Timezone   string // IANA identifier, e.g. "Asia/Riyadh"

	loc *time.Location
}

// NewConfig builds a validated Config for a named calculation method.
func NewConfig(m method.Method, madhab method.Madhab, coord Coordinate, timezone string) (Config, error) {
	params, ok := m.Params()
	if !ok {
		return Config{}, fmt.Errorf("%w: method %q has no published parameters (use NewCustomConfig)", ErrInvalidConfig, m)
	}
	return newConfig(m, params, madhab, coord, timezone)
}

// NewCustomConfig builds a validated Config with caller-supplied angles.
// ishaInterval, when positive, replaces the Isha angle with a fixed number
// of minutes after Maghrib.
func NewCustomConfig(fajrAngle, ishaAngle float64, ishaInterval int, madhab method.Madhab, coord Coordinate, timezone string) (Config, error) {
	params, err := method.CustomParams(fajrAngle, ishaAngle, ishaInterval)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return newConfig(method.Custom, params, madhab, coord, timezone)
}

func newConfig(m method.Method, params method.Params, madhab method.Madhab, coord Coordinate, timezone string) (Config, error) {
	if _, err := NewCoordinate(coord.Latitude, coord.Longitude); err != nil {
		return Config{}, err
	}
	if timezone == "" {
		return Config{}, fmt.Errorf("%w: timezone is required", ErrInvalidConfig)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Config{}, fmt.Errorf("%w: unknown timezone %q", ErrInvalidConfig, timezone)
	}

	return Config{
		Method:     m,
		Params:     params,
		Madhab:     madhab,
		Coordinate: coord,
		Timezone:   timezone,
		loc:        loc,
	}, nil
}

// WithHighLatRule returns a copy of the config with the high-latitude rule
// overridden, for users who disagree with the method's default.
func (c Config) WithHighLatRule(r method.HighLatRule) Config {
	c.Params.HighLat = r
	return c
}

// Location returns the resolved timezone.
func (c Config) Location() *time.Location {
	if c.loc == nil {
		// Only the zero-value Config lacks a location; validated configs
		// always carry one.
		return time.UTC
	}
	return c.loc
}
