package commands

import (
	"github.com/spf13/cobra"

	"github.com/fortuna/kbostats/internal/config"
	"github.com/fortuna/kbostats/internal/scrape"
)

var scheduleSeries []string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Collect the game schedule, one file per season",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := setup()
		if err != nil {
			return err
		}
		scraper := scrape.NewSchedule(deps, scheduleSeries)
		for _, season := range seasonRange(config.FirstScheduleSeason) {
			if err := scraper.RunSeason(cmd.Context(), season, flagFormat); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringSliceVar(&scheduleSeries, "series", nil,
		"series ids to include (defaults to all)")
	rootCmd.AddCommand(scheduleCmd)
}
