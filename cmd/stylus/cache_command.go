package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"stylus/internal/resolvecache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the resolution cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))

	return cacheCmd
}

func (c *commandContext) withCache(fn func(*resolvecache.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := resolvecache.Open(cfg.Cache, c.ensureLogger())
	if err != nil {
		return fmt.Errorf("open resolution cache: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached resolutions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCache(func(store *resolvecache.Store) error {
				entries, err := store.Entries(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "cache is empty")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					expires := "never"
					if !entry.ExpiresAt.IsZero() {
						expires = entry.ExpiresAt.Format(time.DateTime)
					}
					rows = append(rows, []string{
						entry.Path,
						string(entry.Status),
						entry.Artist,
						entry.Title,
						entry.CreatedAt.Format(time.DateTime),
						expires,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Path", "Status", "Artist", "Title", "Cached", "Expires"},
					rows, nil,
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to list (0 for all)")
	return cmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache occupancy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCache(func(store *resolvecache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				rows := [][]string{
					{"Entries", strconv.FormatInt(stats.Entries, 10)},
					{"Expired", strconv.FormatInt(stats.Expired, 10)},
				}
				if !stats.Oldest.IsZero() {
					rows = append(rows, []string{"Oldest", stats.Oldest.Format(time.DateTime)})
					rows = append(rows, []string{"Newest", stats.Newest.Format(time.DateTime)})
				}
				rows = append(rows, []string{"Database", store.Path()})
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Stat", "Value"}, rows, nil,
				))
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached resolutions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCache(func(store *resolvecache.Store) error {
				removed, err := store.Invalidate(cmd.Context(), prefix)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached resolutions\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Only remove entries whose path starts with this prefix")
	return cmd
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCache(func(store *resolvecache.Store) error {
				removed, err := store.Prune(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d expired resolutions\n", removed)
				return nil
			})
		},
	}
}
