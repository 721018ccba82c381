package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortuna/kbostats/internal/config"
	"github.com/fortuna/kbostats/internal/scrape"
)

var (
	gameDate     string
	gameSeries   []string
	gameFromFile string
)

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Collect per-game line scores and box scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		if gameDate != "" {
			if _, err := time.Parse("20060102", gameDate); err != nil {
				return fmt.Errorf("invalid --date %q: expected YYYYMMDD", gameDate)
			}
		}

		deps, err := setup()
		if err != nil {
			return err
		}
		scraper := scrape.NewGame(deps, gameSeries)
		ctx := cmd.Context()

		switch {
		case gameFromFile != "":
			return scraper.RunFromFile(ctx, gameFromFile, flagFormat)
		case gameDate != "":
			return scraper.RunDate(ctx, gameDate, flagFormat)
		default:
			for _, season := range seasonRange(config.FirstScheduleSeason) {
				if err := scraper.RunSeason(ctx, season, flagFormat); err != nil {
					return err
				}
			}
			return nil
		}
	},
}

func init() {
	gameCmd.Flags().StringVarP(&gameDate, "date", "d", "",
		"collect a single date (YYYYMMDD)")
	gameCmd.Flags().StringSliceVar(&gameSeries, "series", nil,
		"series ids to include (defaults to all)")
	gameCmd.Flags().StringVar(&gameFromFile, "from-file", "",
		"collect the games listed in a previously saved schedule file")
	rootCmd.AddCommand(gameCmd)
}
