package prayer

import "errors"

// ErrInvalidConfig marks configuration errors: out-of-range coordinates,
// malformed custom angles, unknown timezones. These are detected when the
// Config is built and never reach the solver.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrPolarDay is returned when no valid sun-angle solution exists for the
// date and location, even after applying the method's high-latitude rule.
// The caller gets this error rather than a fabricated time.
var ErrPolarDay = errors.New("prayer times cannot be determined for this location and date")
