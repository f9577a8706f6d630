package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"miqat/internal/display"
	"miqat/internal/prayer"
)

const (
	defaultListDays = 7
	maxListDays     = 366
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days starting from the base date (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days := defaultListDays
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid day count %q: must be a positive integer", args[0])
				}
				days = n
			}
			return runList(cmd, days)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, 30)
		},
	}
}

func runList(cmd *cobra.Command, days int) error {
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

	var all []prayer.Times
	for i := 0; i < days; i++ {
		times, err := s.solveDay(start.AddDate(0, 0, i))
		if err != nil {
			// A polar failure mid-range is reported with its date so the
			// rest of the range is still inspectable via --date.
			if errors.Is(err, prayer.ErrPolarDay) {
				return fmt.Errorf("%s: %w", start.AddDate(0, 0, i).Format("2006-01-02"), err)
			}
			return err
		}
		all = append(all, times)
	}

	if FlagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}

	printListTable(s, all)
	return nil
}

func printListTable(s *session, all []prayer.Times) {
	selected := s.selectedPrayers()

	headers := append([]string{"Date"}, selected...)
	table := display.NewTable(headers...)

	today := time.Now().In(s.prayerCfg.Location()).Format("2006-01-02")
	for i, times := range all {
		row := []string{times.Date}
		for _, p := range filterPrayers(times.List(), selected) {
			row = append(row, p.Time.Format(s.timeFmt))
		}
		table.AddRow(row...)
		if times.Date == today {
			table.SetHighlightRow(i)
		}
	}

	fmt.Println()
	fmt.Printf("  %s  %s\n", display.Bold("Prayer Times"), display.Dim(s.locationLabel()))
	fmt.Println()
	fmt.Print(table.Render())
	fmt.Println()
}
