package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gait-ai/gait/pkg/cache"
)

func newCacheCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the prompt result cache",
	}

	// withCache opens the configured backend for one subcommand.
	withCache := func(fn func(ctx context.Context, c cache.Cache) error) error {
		a, err := newApp(*configPath)
		if err != nil {
			return err
		}
		defer a.close()

		c, closer, err := a.openCache()
		if err != nil {
			return err
		}
		defer func() { _ = closer.Close() }()
		return fn(context.Background(), c)
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(func(ctx context.Context, c cache.Cache) error {
				stats, err := c.Stats(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Entries: %d\n", stats.Entries)
				return nil
			})
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <prompt>",
		Short: "Print the cached result for a prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			return withCache(func(ctx context.Context, c cache.Cache) error {
				e, ok := c.Get(ctx, prompt)
				if !ok {
					return fmt.Errorf("no live cache entry for %q", prompt)
				}
				fmt.Printf("# %s (created %s)\n%s\n", e.PromptKey, e.CreatedAt.Format(time.RFC3339), e.Result)
				return nil
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <prompt>",
		Short: "Delete the cache entry of a prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			return withCache(func(ctx context.Context, c cache.Cache) error {
				if err := c.Delete(ctx, prompt); err != nil {
					return err
				}
				fmt.Println("Deleted", cache.KeyFor(prompt))
				return nil
			})
		},
	}

	var expiredOnly bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(func(ctx context.Context, c cache.Cache) error {
				if err := c.Clear(ctx, expiredOnly); err != nil {
					return err
				}
				if expiredOnly {
					fmt.Println("Expired cache entries cleared.")
				} else {
					fmt.Println("All cache entries cleared.")
				}
				return nil
			})
		},
	}
	clearCmd.Flags().BoolVar(&expiredOnly, "expired", false, "only clear expired entries")

	cmd.AddCommand(statsCmd, getCmd, deleteCmd, clearCmd)
	return cmd
}
