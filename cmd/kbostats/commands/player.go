package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortuna/kbostats/internal/config"
	"github.com/fortuna/kbostats/internal/scrape"
)

var (
	playerCategory string
	playerDetail   bool
)

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Collect player season stats, optionally with per-player detail pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		categories := config.PlayerCategories()
		if playerCategory != "" {
			cat, ok := config.PlayerCategoryByName(playerCategory)
			if !ok {
				return fmt.Errorf("unknown category %q (want hitter, pitcher, fielder or runner)", playerCategory)
			}
			categories = []config.PlayerCategory{cat}
		}

		deps, err := setup()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		for _, cat := range categories {
			scraper := scrape.NewPlayer(deps, cat)
			for _, season := range seasonRange(cat.FirstSeason) {
				if err := scraper.RunSeason(ctx, season, flagFormat); err != nil {
					return err
				}
				if playerDetail {
					if err := scraper.RunDetail(ctx, season, flagFormat); err != nil {
						return err
					}
				}
			}
		}
		return nil
	},
}

func init() {
	playerCmd.Flags().StringVarP(&playerCategory, "category", "c", "",
		"restrict to one category: hitter, pitcher, fielder or runner")
	playerCmd.Flags().BoolVar(&playerDetail, "detail", false,
		"also collect per-player daily and situational pages")
	rootCmd.AddCommand(playerCmd)
}
