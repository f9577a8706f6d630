// Package astro provides the solar-position arithmetic behind prayer time
// calculation: Julian day conversion, a low-precision solar ephemeris
// (declination and equation of time), and hour-angle solving for a given
// sun angle below the horizon.
//
// Everything here is a pure function of its inputs. Angles are in degrees,
// hour angles and equation-of-time values in hours. The expected accuracy of
// the ephemeris is about one minute of clock time, which is the customary
// precision for published prayer tables.
package astro

import (
	"errors"
	"math"
	"time"
)

// RiseSetAngle is the depression angle used for sunrise and sunset. It
// accounts for atmospheric refraction (~0.567 deg) plus the apparent solar
// disk radius (~0.266 deg).
const RiseSetAngle = 0.833

// ErrNoSolution is returned by HourAngle when the sun never reaches the
// requested angle on the given day (polar day or polar night conditions).
var ErrNoSolution = errors.New("sun never reaches the requested angle")

// JulianDay converts a Gregorian calendar date to the Julian day number at
// 0h Universal Time.
func JulianDay(year int, month time.Month, day int) float64 {
	y, m := year, int(month)
	if m <= 2 {
		y--
		m += 12
	}
	a := y / 100
	b := 2 - a + a/4
	return math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		float64(day) + float64(b) - 1524.5
}

// SunCoords holds the apparent solar position quantities needed for prayer
// time solving.
type SunCoords struct {
	Declination    float64 // degrees, positive north
	EquationOfTime float64 // hours, apparent minus mean solar time
}

// SunPosition computes the sun's declination and the equation of time for
// the given Julian day using the low-precision series from the Astronomical
// Almanac. Good to roughly one minute of time between 1950 and 2050.
func SunPosition(jd float64) SunCoords {
	d := jd - 2451545.0

	g := fixAngle(357.529 + 0.98560028*d) // mean anomaly
	q := fixAngle(280.459 + 0.98564736*d) // mean longitude
	l := fixAngle(q + 1.915*dsin(g) + 0.020*dsin(2*g))

	e := 23.439 - 0.00000036*d // obliquity of the ecliptic

	ra := fixHour(math.Atan2(dcos(e)*dsin(l), dcos(l)) * 12 / math.Pi)
	eqt := q/15 - ra
	// Bring the equation of time into (-12, 12]; the RA wrap can leave it a
	// full day off around the equinoxes.
	eqt -= 24 * math.Round(eqt/24)

	return SunCoords{
		Declination:    dasin(dsin(e) * dsin(l)),
		EquationOfTime: eqt,
	}
}

// HourAngle solves for the hour angle (in hours from solar noon) at which
// the sun sits angle degrees below the horizon, for an observer at the given
// latitude with the given solar declination:
//
//	cos H = (-sin a - sin lat * sin decl) / (cos lat * cos decl)
//
// Pass a negative angle for an altitude above the horizon (used for Asr).
// Returns ErrNoSolution when no such hour angle exists on this day.
func HourAngle(latitude, declination, angle float64) (float64, error) {
	cosH := (-dsin(angle) - dsin(latitude)*dsin(declination)) /
		(dcos(latitude) * dcos(declination))
	if cosH < -1 || cosH > 1 {
		return 0, ErrNoSolution
	}
	return dacos(cosH) / 15, nil
}

// AsrAltitude returns the sun's altitude (degrees above the horizon) at
// which an object's shadow equals shadow times its height plus the shadow
// length at solar noon. shadow is 1 for the majority position and 2 for the
// Hanafi school.
func AsrAltitude(latitude, declination float64, shadow int) float64 {
	return datan(1 / (float64(shadow) + dtan(math.Abs(latitude-declination))))
}

// Degree-based trig wrappers.

func dsin(d float64) float64 { return math.Sin(d * math.Pi / 180) }
func dcos(d float64) float64 { return math.Cos(d * math.Pi / 180) }
func dtan(d float64) float64 { return math.Tan(d * math.Pi / 180) }

func dasin(x float64) float64 { return math.Asin(x) * 180 / math.Pi }
func dacos(x float64) float64 { return math.Acos(x) * 180 / math.Pi }
func datan(x float64) float64 { return math.Atan(x) * 180 / math.Pi }

// fixAngle normalizes an angle into [0, 360).
func fixAngle(a float64) float64 {
	return a - 360*math.Floor(a/360)
}

// fixHour normalizes an hour value into [0, 24).
func fixHour(h float64) float64 {
	return h - 24*math.Floor(h/24)
}
