package prayer

import (
	"fmt"
	"time"
)

// Prayer represents a single prayer with its name and time.
type Prayer struct {
	Name string
	Time time.Time
}

// Names lists the six daily events in chronological order.
var Names = []string{
	"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha",
}

// ShortNames maps full names to abbreviations used by compact output formats.
var ShortNames = map[string]string{
	"Fajr":    "F",
	"Sunrise": "S",
	"Dhuhr":   "D",
	"Asr":     "A",
	"Maghrib": "M",
	"Isha":    "I",
}

// Times holds the solved prayer times for one calendar date, already in the
// requested timezone. On every successful solve the six times are strictly
// increasing.
type Times struct {
	Date    string    `json:"date"` // YYYY-MM-DD in the config's timezone
	Fajr    time.Time `json:"fajr"`
	Sunrise time.Time `json:"sunrise"`
	Dhuhr   time.Time `json:"dhuhr"`
	Asr     time.Time `json:"asr"`
	Maghrib time.Time `json:"maghrib"`
	Isha    time.Time `json:"isha"`
}

// List returns the six events as named prayers in chronological order.
func (t Times) List() []Prayer {
	return []Prayer{
		{"Fajr", t.Fajr},
		{"Sunrise", t.Sunrise},
		{"Dhuhr", t.Dhuhr},
		{"Asr", t.Asr},
		{"Maghrib", t.Maghrib},
		{"Isha", t.Isha},
	}
}

// ByName returns the time of a single event.
func (t Times) ByName(name string) (time.Time, error) {
	for _, p := range t.List() {
		if p.Name == name {
			return p.Time, nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown prayer name: %s", name)
}

// ordered reports whether the six times strictly increase.
func (t Times) ordered() bool {
	list := t.List()
	for i := 1; i < len(list); i++ {
		if !list[i].Time.After(list[i-1].Time) {
			return false
		}
	}
	return true
}

// NextPrayer finds the next upcoming prayer relative to now.
// If all prayers for the day have passed, it returns nil (caller should
// solve the following day and take its Fajr).
func NextPrayer(prayers []Prayer, now time.Time) *Prayer {
	for i := range prayers {
		if prayers[i].Time.After(now) {
			return &prayers[i]
		}
	}
	return nil
}

// CurrentPrayer finds the most recent prayer that has already begun, or nil
// before Fajr.
func CurrentPrayer(prayers []Prayer, now time.Time) *Prayer {
	var current *Prayer
	for i := range prayers {
		if prayers[i].Time.After(now) {
			break
		}
		current = &prayers[i]
	}
	return current
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(prayer Prayer, now time.Time) time.Duration {
	return prayer.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// ValidName reports whether name is one of the six solved events.
func ValidName(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
