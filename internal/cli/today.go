package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"miqat/internal/display"
	"miqat/internal/prayer"
)

func runToday(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	date, err := s.baseDate()
	if err != nil {
		return err
	}

	times, err := s.solveDay(date)
	if err != nil {
		return err
	}

	now := time.Now().In(s.prayerCfg.Location())
	prayers := filterPrayers(times.List(), s.selectedPrayers())

	current := prayer.CurrentPrayer(prayers, now)
	next := prayer.NextPrayer(prayers, now)

	if FlagJSON {
		return printTodayJSON(s, times, prayers, current, next, now)
	}

	printTodayRich(s, times, prayers, current, next, now)
	return nil
}

// filterPrayers keeps only the named events, preserving order.
func filterPrayers(prayers []prayer.Prayer, names []string) []prayer.Prayer {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	var out []prayer.Prayer
	for _, p := range prayers {
		if keep[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

// printTodayRich renders the colored terminal output for a day's schedule.
func printTodayRich(s *session, times prayer.Times, prayers []prayer.Prayer, current, next *prayer.Prayer, now time.Time) {
	fmt.Println()
	fmt.Printf("  %s\n", display.Bold("Prayer Times"))
	fmt.Println()
	fmt.Printf("  %s\n", s.locationLabel())
	fmt.Printf("  %s\n", s.prayerCfg.Timezone)
	fmt.Printf("  %s\n", formatDate(times.Date))
	fmt.Printf("  %s, %s asr\n", s.prayerCfg.Method.DisplayName(), s.prayerCfg.Madhab)
	fmt.Println()

	maxNameLen := 0
	for _, p := range prayers {
		if len(p.Name) > maxNameLen {
			maxNameLen = len(p.Name)
		}
	}

	today := times.Date == now.Format("2006-01-02")

	for _, p := range prayers {
		line := fmt.Sprintf("  %-*s  %s", maxNameLen, p.Name, p.Time.Format(s.timeFmt))

		switch {
		case !today:
			fmt.Println(line)
		case current != nil && p.Name == current.Name:
			// Current prayer: dimmed.
			fmt.Println(display.Dim(line))
		case next != nil && p.Name == next.Name:
			// Next prayer: accent color + countdown.
			remaining := prayer.FormatRemaining(prayer.TimeRemaining(p, now))
			fmt.Println(display.Accent(line + fmt.Sprintf("  <- next in %s", remaining)))
		default:
			fmt.Println(line)
		}
	}

	fmt.Println()
}

// formatDate reformats a YYYY-MM-DD date for display.
func formatDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("Mon, 02 Jan 2006")
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location todayJSONLocation `json:"location"`
	Date     string            `json:"date"`
	Method   string            `json:"method"`
	Madhab   string            `json:"madhab"`
	Timings  map[string]string `json:"timings"`
	Current  string            `json:"current,omitempty"`
	Next     *todayJSONNext    `json:"next,omitempty"`
}

type todayJSONLocation struct {
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(s *session, times prayer.Times, prayers []prayer.Prayer, current, next *prayer.Prayer, now time.Time) error {
	timings := make(map[string]string, len(prayers))
	for _, p := range prayers {
		timings[strings.ToLower(p.Name)] = p.Time.Format(s.timeFmt)
	}

	out := todayJSON{
		Location: todayJSONLocation{
			City:      s.location.City,
			Country:   s.location.Country,
			Timezone:  s.prayerCfg.Timezone,
			Latitude:  s.prayerCfg.Coordinate.Latitude,
			Longitude: s.prayerCfg.Coordinate.Longitude,
		},
		Date:    times.Date,
		Method:  s.prayerCfg.Method.String(),
		Madhab:  s.prayerCfg.Madhab.String(),
		Timings: timings,
	}

	if current != nil {
		out.Current = strings.ToLower(current.Name)
	}
	if next != nil {
		out.Next = &todayJSONNext{
			Prayer:    strings.ToLower(next.Name),
			Time:      next.Time.Format(s.timeFmt),
			Remaining: prayer.FormatRemaining(prayer.TimeRemaining(*next, now)),
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
