package prayer

import (
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Named display modes for single-prayer output, aimed at status bars.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// FormatData is the value a custom output template is executed against.
type FormatData struct {
	Name      string // full event name, e.g. "Asr"
	ShortName string // single-letter abbreviation, e.g. "A"
	Time      string // clock time in the caller's layout
	Remaining string // countdown, e.g. "2h 15m"
	Hours     int    // whole hours until the event
	Minutes   int    // minutes past the whole hours
}

// FormatOutput renders one prayer in the requested mode. timeFormat is the Go
// time layout to use for clock times ("15:04" or "3:04 PM").
//
// A mode containing "{{" is treated as a Go template over FormatData, so
// status bars can compose their own line:
//
//	"{{.Name}} in {{.Remaining}}" -> "Asr in 2h 15m"
//
// Unknown mode names fall back to name-and-time.
func FormatOutput(p Prayer, now time.Time, mode string, timeFormat string) string {
	left := TimeRemaining(p, now)
	data := FormatData{
		Name:      p.Name,
		ShortName: ShortNames[p.Name],
		Time:      p.Time.Format(timeFormat),
		Remaining: FormatRemaining(left),
		Hours:     int(left.Hours()),
		Minutes:   int(left.Minutes()) % 60,
	}

	if strings.Contains(mode, "{{") {
		return renderTemplate(mode, data)
	}

	switch mode {
	case FormatTimeRemaining:
		return data.Remaining
	case FormatNextPrayerTime:
		return data.Time
	case FormatNameAndRemaining:
		return data.Name + " " + data.Remaining
	case FormatShortNameAndTime:
		return data.ShortName + " " + data.Time
	case FormatShortNameAndRemain:
		return data.ShortName + " " + data.Remaining
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", data.Name, data.Time, data.Remaining)
	default:
		return data.Name + " " + data.Time
	}
}

// renderTemplate executes a user-supplied template. Errors render inline in
// the output instead of failing the command.
func renderTemplate(tmpl string, data FormatData) string {
	t, err := template.New("format").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	return sb.String()
}
