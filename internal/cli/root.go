package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"miqat/internal/config"
)

// Global flags shared across all subcommands.
var (
	FlagLatitude     float64
	FlagLongitude    float64
	FlagTimezone     string
	FlagMethod       string
	FlagMadhab       string
	FlagHighLat      string
	FlagFajrAngle    float64
	FlagIshaAngle    float64
	FlagIshaInterval int
	FlagDate         string
	FlagJSON         bool
	FlagCacheDir     string
	FlagCacheBackend string
	FlagNoCache      bool
	FlagTimeFormat   string
	FlagVerbose      bool
)

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// log is the CLI-wide logger, configured during PersistentPreRunE.
var log zerolog.Logger

// NewRootCmd creates the root command for the miqat CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "miqat",
		Short:   "Islamic prayer times, computed locally",
		Long:    "A prayer times CLI that computes the five daily prayers (plus sunrise)\nfrom solar astronomy, with per-convention twilight angles and madhab-aware Asr.\nNo network required once a location is configured.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.WarnLevel
			if FlagVerbose {
				level = zerolog.DebugLevel
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			return nil
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA timezone, e.g. Asia/Riyadh (overrides config)")
	pf.StringVar(&FlagMethod, "method", "", "Calculation method: mwl, egyptian, umm-al-qura, isna, karachi, moonsighting, custom")
	pf.StringVar(&FlagMadhab, "madhab", "", "Asr madhab: shafi or hanafi")
	pf.StringVar(&FlagHighLat, "high-lat", "", "High latitude rule: none, angle-based, one-seventh, middle-of-night (default: per method)")
	pf.Float64Var(&FlagFajrAngle, "fajr-angle", 0, "Custom Fajr angle in degrees (method=custom)")
	pf.Float64Var(&FlagIshaAngle, "isha-angle", 0, "Custom Isha angle in degrees (method=custom)")
	pf.IntVar(&FlagIshaInterval, "isha-interval", 0, "Custom Isha interval in minutes after Maghrib (method=custom)")
	pf.StringVar(&FlagDate, "date", "", "Date to solve for, YYYY-MM-DD (default: today)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/miqat/)")
	pf.StringVar(&FlagCacheBackend, "cache-backend", "", "Cache backend: file or sqlite")
	pf.BoolVar(&FlagNoCache, "no-cache", false, "Disable the result cache")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.BoolVar(&FlagVerbose, "verbose", false, "Enable debug logging")

	// Register subcommands.
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())
	rootCmd.AddCommand(newCacheCmd())

	return rootCmd
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	cfg := loadedConfig
	if cfg == nil {
		empty := config.Config{}
		cfg = &empty
	}

	defaults := config.Defaults()

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(flags, root, "latitude") {
		cfg.Latitude = &FlagLatitude
	}
	if flagWasSet(flags, root, "longitude") {
		cfg.Longitude = &FlagLongitude
	}
	if flagWasSet(flags, root, "timezone") {
		cfg.Timezone = FlagTimezone
	}
	if flagWasSet(flags, root, "method") {
		cfg.Method = FlagMethod
	} else if cfg.Method == "" {
		cfg.Method = defaults.Method
	}
	if flagWasSet(flags, root, "madhab") {
		cfg.Madhab = FlagMadhab
	} else if cfg.Madhab == "" {
		cfg.Madhab = defaults.Madhab
	}
	if flagWasSet(flags, root, "high-lat") {
		cfg.HighLat = FlagHighLat
	}
	if flagWasSet(flags, root, "fajr-angle") {
		cfg.FajrAngle = &FlagFajrAngle
	}
	if flagWasSet(flags, root, "isha-angle") {
		cfg.IshaAngle = &FlagIshaAngle
	}
	if flagWasSet(flags, root, "isha-interval") {
		cfg.IshaInterval = &FlagIshaInterval
	}
	if flagWasSet(flags, root, "cache-dir") {
		cfg.CacheDir = FlagCacheDir
	}
	if flagWasSet(flags, root, "cache-backend") {
		cfg.CacheBackend = FlagCacheBackend
	} else if cfg.CacheBackend == "" {
		cfg.CacheBackend = defaults.CacheBackend
	}

	// Time format: CLI flag > config > default ("24h").
	if flagWasSet(flags, root, "time-format") {
		cfg.TimeFormat = FlagTimeFormat
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}

	return cfg
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}
