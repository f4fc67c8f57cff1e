package handlers

import (
	"errors"
	"fmt"
	"sort"

	"autoblog/internal/config"
	"autoblog/internal/index"

	"github.com/spf13/cobra"
)

// NewIndexCmd creates the index command for inspecting the post index
func NewIndexCmd() *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect the published-post index",
	}

	indexCmd.AddCommand(newIndexListCmd())
	indexCmd.AddCommand(newIndexStatsCmd())

	return indexCmd
}

func newIndexListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all published posts in the index",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := index.NewRegistry(config.GetIndexPath()).Load()
			if err != nil {
				if !errors.Is(err, index.ErrCorrupt) {
					return err
				}
				fmt.Printf("Warning: index is corrupt and reads as empty: %v\n", err)
			}
			if len(records) == 0 {
				fmt.Println("No posts in the index.")
				return nil
			}
			for _, r := range records {
				fmt.Printf("%s  %-40s  %s\n", r.Date, r.Slug, r.Title)
			}
			return nil
		},
	}
}

func newIndexStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show post counts by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := index.NewRegistry(config.GetIndexPath()).Load()
			if err != nil && !errors.Is(err, index.ErrCorrupt) {
				return err
			}

			counts := make(map[string]int)
			for _, r := range records {
				category := r.Category
				if category == "" {
					category = "(none)"
				}
				counts[category]++
			}

			categories := make([]string, 0, len(counts))
			for c := range counts {
				categories = append(categories, c)
			}
			sort.Strings(categories)

			fmt.Printf("Total posts: %d\n", len(records))
			for _, c := range categories {
				fmt.Printf("  %-20s %d\n", c, counts[c])
			}
			return nil
		},
	}
}
