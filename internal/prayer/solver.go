package prayer

import (
	"fmt"
	"math"
	"time"

	"miqat/internal/astro"
	"miqat/internal/method"
)

// dhuhrOffsetMinutes is added past apparent solar noon so Dhuhr clears the
// zenith moment.
const dhuhrOffsetMinutes = 1

// solveIterations is the number of refinement passes over the initial
// day-fraction estimates. One pass after the seed keeps every time within
// the one-minute accuracy target.
const solveIterations = 2

// Solve computes the six prayer times for the calendar date (year, month and
// day of date, interpreted in the config's timezone). It is deterministic and
// side-effect free; times come back rounded to whole seconds in the config's
// timezone, strictly ordered Fajr < Sunrise < Dhuhr < Asr < Maghrib < Isha.
//
// When the sun never reaches a required angle and the method's high-latitude
// rule cannot resolve it, Solve returns an error wrapping ErrPolarDay.
func Solve(date time.Time, cfg Config) (Times, error) {
	if cfg.loc == nil {
		return Times{}, fmt.Errorf("%w: config was not built with NewConfig", ErrInvalidConfig)
	}

	year, month, day := date.In(cfg.loc).Date()
	s := solver{
		lat:    cfg.Coordinate.Latitude,
		lon:    cfg.Coordinate.Longitude,
		params: cfg.Params,
		shadow: cfg.Madhab.Shadow(),
		// Anchor the Julian date at the coordinate's longitude so all raw
		// times come out in apparent solar hours for the location.
		jbase: astro.JulianDay(year, month, day) - cfg.Coordinate.Longitude/(15*24),
	}

	raw, err := s.run()
	if err != nil {
		return Times{}, fmt.Errorf("%s at %.4f, %.4f on %04d-%02d-%02d: %w",
			cfg.Method, s.lat, s.lon, year, month, day, err)
	}

	// Raw values are apparent solar hours; shifting by the longitude gives
	// UTC, and the zone conversion happens on the time.Time itself.
	base := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	clock := func(solarHours float64) time.Time {
		secs := math.Round((solarHours - s.lon/15) * 3600)
		return base.Add(time.Duration(secs) * time.Second).In(cfg.loc)
	}

	t := Times{
		Date:    fmt.Sprintf("%04d-%02d-%02d", year, month, day),
		Fajr:    clock(raw.fajr),
		Sunrise: clock(raw.sunrise),
		Dhuhr:   clock(raw.dhuhr),
		Asr:     clock(raw.asr),
		Maghrib: clock(raw.maghrib),
		Isha:    clock(raw.isha),
	}
	if !t.ordered() {
		return Times{}, fmt.Errorf("computed times out of order at %.4f, %.4f: %w", s.lat, s.lon, ErrPolarDay)
	}
	return t, nil
}

// solver carries the per-call state for one date and location.
type solver struct {
	lat, lon float64
	params   method.Params
	shadow   int
	jbase    float64
}

// rawTimes are apparent solar hours from local midnight. Isha may exceed 24
// when it falls past civil midnight.
type rawTimes struct {
	fajr, sunrise, dhuhr, asr, maghrib, isha float64
}

func (s *solver) run() (rawTimes, error) {
	// Seed estimates (hours) refined by successive passes. Where a pass
	// finds no solution the previous estimate stays, and the failure is
	// resolved afterwards by the high-latitude rule.
	fajr, sunrise, dhuhr, asr, sunset, isha := 5.0, 6.0, 12.0, 13.0, 18.0, 18.0
	fajrOK, riseOK, setOK, ishaOK := true, true, true, true

	angleIsha := s.params.IshaInterval == 0

	for i := 0; i < solveIterations; i++ {
		dhuhr = s.midDay(dhuhr)

		if v, err := s.angleTime(astro.RiseSetAngle, sunrise, -1); err == nil {
			sunrise, riseOK = v, true
		} else {
			riseOK = false
		}
		if v, err := s.angleTime(astro.RiseSetAngle, sunset, +1); err == nil {
			sunset, setOK = v, true
		} else {
			setOK = false
		}
		if v, err := s.angleTime(s.params.FajrAngle, fajr, -1); err == nil {
			fajr, fajrOK = v, true
		} else {
			fajrOK = false
		}
		if angleIsha {
			if v, err := s.angleTime(s.params.IshaAngle, isha, +1); err == nil {
				isha, ishaOK = v, true
			} else {
				ishaOK = false
			}
		}

		v, err := s.asrTime(asr)
		if err != nil {
			// Asr has no independent fallback; it only fails when the sun
			// never rises at all on this date.
			return rawTimes{}, fmt.Errorf("no asr solution: %w", ErrPolarDay)
		}
		asr = v
	}

	if !riseOK || !setOK {
		return rawTimes{}, fmt.Errorf("sun does not rise and set: %w", ErrPolarDay)
	}

	night := 24 - (sunset - sunrise)

	if !fajrOK {
		portion, ok := nightPortion(s.params.HighLat, s.params.FajrAngle, night)
		if !ok {
			return rawTimes{}, fmt.Errorf("no fajr solution: %w", ErrPolarDay)
		}
		fajr = sunrise - portion
	}

	maghrib := sunset + float64(s.params.MaghribOffset)/60

	if !angleIsha {
		isha = maghrib + float64(s.params.IshaInterval)/60
	} else if !ishaOK {
		portion, ok := nightPortion(s.params.HighLat, s.params.IshaAngle, night)
		if !ok {
			return rawTimes{}, fmt.Errorf("no isha solution: %w", ErrPolarDay)
		}
		isha = sunset + portion
	}

	dhuhr += dhuhrOffsetMinutes / 60.0

	return rawTimes{
		fajr:    fajr,
		sunrise: sunrise,
		dhuhr:   dhuhr,
		asr:     asr,
		maghrib: maghrib,
		isha:    isha,
	}, nil
}

// midDay returns apparent solar noon (hours) evaluated at estimate t.
func (s *solver) midDay(t float64) float64 {
	pos := astro.SunPosition(s.jbase + t/24)
	noon := 12 - pos.EquationOfTime
	return noon - 24*math.Floor(noon/24)
}

// angleTime returns the solar time at which the sun is angle degrees below
// the horizon. direction is -1 for the morning side of noon, +1 for the
// afternoon side.
func (s *solver) angleTime(angle, t float64, direction float64) (float64, error) {
	pos := astro.SunPosition(s.jbase + t/24)
	ha, err := astro.HourAngle(s.lat, pos.Declination, angle)
	if err != nil {
		return 0, err
	}
	return s.midDay(t) + direction*ha, nil
}

// asrTime returns the solar time at which the shadow-length condition holds.
func (s *solver) asrTime(t float64) (float64, error) {
	pos := astro.SunPosition(s.jbase + t/24)
	alt := astro.AsrAltitude(s.lat, pos.Declination, s.shadow)
	ha, err := astro.HourAngle(s.lat, pos.Declination, -alt)
	if err != nil {
		return 0, err
	}
	return s.midDay(t) + ha, nil
}

// nightPortion returns the fraction of the night (in hours) the given
// high-latitude rule assigns to the twilight interval. ok is false when the
// rule is NoAdjustment.
func nightPortion(rule method.HighLatRule, angle, night float64) (float64, bool) {
	switch rule {
	case method.AngleBased:
		return angle / 60 * night, true
	case method.OneSeventh:
		return night / 7, true
	case method.MiddleOfNight:
		return night / 2, true
	default:
		return 0, false
	}
}
