package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"miqat/internal/prayer"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long:  "Print the time of a single prayer for the base date, or across\nmultiple days with --days N (or --days week / --days month).",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	name, err := canonicalPrayerName(args[0])
	if err != nil {
		return err
	}

	days := 1
	switch flagQueryDays {
	case "":
	case "week":
		days = 7
	case "month":
		days = 30
	default:
		n, err := strconv.Atoi(flagQueryDays)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid --days value %q: must be a positive integer, 'week' or 'month'", flagQueryDays)
		}
		days = n
	}
	if days > maxListDays {
		return fmt.Errorf("day count %d too large: maximum is %d", days, maxListDays)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	start, err := s.baseDate()
	if err != nil {
		return err
	}

	type entry struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	var entries []entry

	for i := 0; i < days; i++ {
		times, err := s.solveDay(start.AddDate(0, 0, i))
		if err != nil {
			return err
		}
		t, err := times.ByName(name)
		if err != nil {
			return err
		}
		entries = append(entries, entry{Date: times.Date, Time: t.Format(s.timeFmt)})
	}

	if FlagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if days == 1 {
			return enc.Encode(entries[0])
		}
		return enc.Encode(entries)
	}

	if days == 1 {
		fmt.Println(entries[0].Time)
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s\n", e.Date, e.Time)
	}
	return nil
}

// canonicalPrayerName matches a case-insensitive prayer name against the
// known events.
func canonicalPrayerName(s string) (string, error) {
	for _, n := range prayer.Names {
		if strings.EqualFold(s, n) {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown prayer %q: valid names are %s", s, strings.Join(prayer.Names, ", "))
}
