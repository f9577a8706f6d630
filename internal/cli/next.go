package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"miqat/internal/prayer"
)

var (
	flagFormat  string
	flagPrayers string
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown.\nSuited for status bars (tmux, polybar): single line, optional custom template.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template")
	cmd.Flags().StringVar(&flagPrayers, "prayers", "", "Comma-separated list of prayers to track (overrides config)")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	// Priority: --prayers flag > config > defaults.
	selected := s.selectedPrayers()
	if cmd.Flags().Changed("prayers") && flagPrayers != "" {
		selected = strings.Split(flagPrayers, ",")
		for i := range selected {
			selected[i] = strings.TrimSpace(selected[i])
		}
	}

	now := time.Now().In(s.prayerCfg.Location())

	times, err := s.solveDay(now)
	if err != nil {
		return err
	}
	prayers := filterPrayers(times.List(), selected)
	next := prayer.NextPrayer(prayers, now)

	// All of today's tracked prayers have passed: roll over to tomorrow.
	if next == nil {
		tomorrow, err := s.solveDay(now.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		prayers = filterPrayers(tomorrow.List(), selected)
		next = prayer.NextPrayer(prayers, now)
	}

	if next == nil {
		return fmt.Errorf("no upcoming prayer found in tracked list %v", selected)
	}

	fmt.Println(prayer.FormatOutput(*next, now, flagFormat, s.timeFmt))
	return nil
}
