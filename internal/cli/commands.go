package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"miqat/internal/config"
	"miqat/internal/display"
	"miqat/internal/method"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display current configuration, or use subcommands to modify it.\nWhen run without subcommands, shows the current configuration.",
		RunE:  runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  miqat config set latitude 21.4225\n  miqat config set longitude 39.8262\n  miqat config set timezone Asia/Riyadh\n  miqat config set method umm-al-qura\n  miqat config set madhab hanafi\n  miqat config set time_format 12h",
			strings.Join(config.ValidKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		RunE:  runConfigPath,
	})

	return cmd
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Configuration (%s)\n\n", path)

	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		shown := val
		if shown == "" {
			shown = "(not set)"
		}
		if key == "method" && val != "" {
			shown = formatMethodValue(val)
		}
		fmt.Printf("  %-14s %s\n", key, shown)
	}
	return nil
}

// runConfigSet sets a config key to the given value.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Reset(); err != nil {
		return err
	}
	fmt.Println("Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// formatMethodValue adds the display name to the short method identifier.
func formatMethodValue(val string) string {
	m, err := method.Parse(val)
	if err != nil {
		return val
	}
	return fmt.Sprintf("%s (%s)", val, m.DisplayName())
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List supported calculation methods",
		Long:  "Display all supported calculation methods with their twilight angles\nand default high latitude rules.",
		RunE:  runMethods,
	}
}

func runMethods(cmd *cobra.Command, args []string) error {
	table := display.NewTable("Name", "Method", "Fajr", "Isha", "High latitude rule")

	for _, m := range method.All() {
		params, ok := m.Params()
		if !ok {
			continue
		}
		isha := fmt.Sprintf("%g°", params.IshaAngle)
		if params.IshaInterval > 0 {
			isha = fmt.Sprintf("%d min after Maghrib", params.IshaInterval)
		}
		table.AddRow(
			m.String(),
			m.DisplayName(),
			fmt.Sprintf("%g°", params.FajrAngle),
			isha,
			params.HighLat.String(),
		)
	}

	fmt.Println()
	fmt.Print(table.Render())
	fmt.Println()
	fmt.Printf("  Use %s for caller-supplied angles (--fajr-angle, --isha-angle, --isha-interval).\n", display.Bold("--method custom"))
	fmt.Println()
	return nil
}
