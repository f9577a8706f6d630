package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"miqat/internal/cache"
	"miqat/internal/config"
	"miqat/internal/store"
)

var flagRetentionDays int

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the prayer times cache",
	}

	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove stale cache entries",
		Long:  "Delete cache entries older than the retention window (default: 30 days).",
		RunE:  runCacheCleanup,
	}
	cleanup.Flags().IntVar(&flagRetentionDays, "retention-days", 0, "Retention window in days (default: 30)")
	cmd.AddCommand(cleanup)

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE:  runCachePath,
	})

	return cmd
}

func runCacheCleanup(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	retention := time.Duration(0)
	if flagRetentionDays > 0 {
		retention = time.Duration(flagRetentionDays) * 24 * time.Hour
	}

	removed := cache.New(st, log).Cleanup(retention)
	fmt.Printf("Removed %d stale cache entries.\n", removed)
	return nil
}

func runCachePath(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if fs, ok := st.(*store.FileStore); ok {
		fmt.Println(fs.Dir())
		return nil
	}

	dir := cfg.CacheDir
	if dir == "" {
		dir = "~/.cache/miqat"
	}
	fmt.Printf("%s/cache.db (%s backend)\n", dir, config.BackendSQLite)
	return nil
}
