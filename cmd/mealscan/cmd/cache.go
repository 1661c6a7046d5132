package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"meal_backend/internal/app/di"
	"meal_backend/internal/feature/mealdetection/adapters/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the secondary detector response cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every cached secondary detection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rdb := di.NewRedis(cmd.Context(), globalConfig.Redis)
		if rdb == nil {
			return errors.New("redis is not configured or unreachable")
		}
		defer rdb.Close()

		c := cache.NewCachingSecondaryDetector(rdb, globalConfig.Redis.CacheTTL, nil, globalConfig.Redis.Namespace)
		n, err := c.Purge(cmd.Context())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "purged %d entries\n", n)
		return err
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
}
