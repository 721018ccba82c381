package commands

import (
	"github.com/spf13/cobra"

	"github.com/fortuna/kbostats/internal/scrape"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Collect season-level team stats, one file per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := setup()
		if err != nil {
			return err
		}
		scraper := scrape.NewTeam(deps)
		for _, season := range seasonRange(1982) {
			if err := scraper.RunSeason(cmd.Context(), season, flagFormat); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(teamCmd)
}
