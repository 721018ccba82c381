package commands

import (
	"github.com/spf13/cobra"

	"github.com/fortuna/kbostats/internal/config"
	"github.com/fortuna/kbostats/internal/scrape"
)

var spectatorCmd = &cobra.Command{
	Use:   "spectator",
	Short: "Collect daily attendance figures, one file per season",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := setup()
		if err != nil {
			return err
		}
		scraper := scrape.NewSpectator(deps)
		for _, season := range seasonRange(config.FirstSpectatorSeason) {
			if err := scraper.RunSeason(cmd.Context(), season, flagFormat); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(spectatorCmd)
}
