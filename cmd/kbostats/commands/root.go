// Package commands wires the collector's CLI: one subcommand per data
// category, shared season and format flags on the root.
package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fortuna/kbostats/internal/config"
	"github.com/fortuna/kbostats/internal/kbo"
	"github.com/fortuna/kbostats/internal/logger"
	"github.com/fortuna/kbostats/internal/scrape"
	"github.com/fortuna/kbostats/internal/store"
)

var (
	flagSeason int
	flagFormat string
	flagFull   bool
)

var rootCmd = &cobra.Command{
	Use:           "kbostats",
	Short:         "Collect KBO league statistics into analyst-friendly files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagSeason, "season", "s", 0,
		"season to collect (defaults to the current year)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", store.FormatParquet,
		"output format: parquet, json or csv")
	rootCmd.PersistentFlags().BoolVar(&flagFull, "full", false,
		"collect every season from the category's first season onward")
}

// ExecuteContext runs the CLI.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup bootstraps the shared collaborators from the environment.
func setup() (scrape.Deps, error) {
	if !store.ValidFormat(flagFormat) {
		return scrape.Deps{}, fmt.Errorf("unsupported format %q (want parquet, json or csv)", flagFormat)
	}

	boot := logger.New("", zerolog.InfoLevel)
	cfg := config.Load(boot)
	log := logger.New(cfg.LogDir, zerolog.InfoLevel)

	return scrape.Deps{
		Client:    kbo.NewClient(cfg.BaseURL, cfg.Timeout, log),
		Endpoints: config.DefaultEndpoints(),
		Store:     store.New(cfg.OutputDir, log),
		Backup:    store.NewBackup(cfg.BackupDir, log),
		Log:       log,
	}, nil
}

// seasonRange resolves the flag triple into the seasons to collect:
// --full walks from the category's first season to the current year,
// --season picks one, and neither means the current year only.
func seasonRange(firstSeason int) []int {
	now := time.Now().Year()
	if flagFull {
		var seasons []int
		for s := firstSeason; s <= now; s++ {
			seasons = append(seasons, s)
		}
		return seasons
	}
	if flagSeason != 0 {
		return []int{flagSeason}
	}
	return []int{now}
}
