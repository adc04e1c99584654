package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feedwise/feedwise/internal/cache"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the analysis cache",
	Long: `Analyses are cached on disk (cache.dir) so unchanged articles are not
re-analyzed on the next run. Entries expire after cache.ttl.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir := cache.ExpandHome(cfg.Cache.Dir)
		if err := cache.NewDiskCache(dir, cfg.Cache.TTL).Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		fmt.Printf("✓ Cleared cache: %s\n", dir)
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir := cache.ExpandHome(cfg.Cache.Dir)
		removed, err := cache.NewDiskCache(dir, cfg.Cache.TTL).Prune()
		if err != nil {
			return fmt.Errorf("prune cache: %w", err)
		}
		fmt.Printf("✓ Removed %d expired entries from %s\n", removed, dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
}
