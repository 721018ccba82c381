package scrape

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fortuna/kbostats/internal/config"
	"github.com/fortuna/kbostats/internal/kbo"
	"github.com/fortuna/kbostats/internal/table"
)

// Team collects the season-level team stat tables. One paginated page
// per category, no roster anchors, no detail pages.
type Team struct {
	deps
}

// NewTeam builds a team stat scraper.
func NewTeam(d Deps) *Team {
	return &Team{deps: newDeps(d)}
}

// RunSeason scrapes every team stat category for one season, one file
// per category. A category whose session cannot be opened is logged and
// skipped.
func (t *Team) RunSeason(ctx context.Context, season int, format string) error {
	saved := 0
	for _, cat := range config.TeamCategories() {
		if ctx.Err() != nil {
			t.log.Warn().Err(ctx.Err()).Msg("team scrape interrupted")
			break
		}
		if season < cat.FirstSeason {
			t.log.Info().Str("category", cat.Name).Int("season", season).
				Msgf("no records before %d, skipping", cat.FirstSeason)
			continue
		}

		records, err := t.scrapeCategory(ctx, season, cat)
		if err != nil {
			t.log.Warn().Str("category", cat.Name).Err(err).Msg("skipping team category")
			continue
		}
		if len(records) == 0 {
			continue
		}
		if err := t.store.Save(records, "team/"+strconv.Itoa(season), cat.Name, format); err != nil {
			return err
		}
		saved++
	}
	if saved == 0 {
		return fmt.Errorf("no team data for season %d", season)
	}
	return nil
}

func (t *Team) scrapeCategory(ctx context.Context, season int, cat config.TeamCategory) ([]*table.Record, error) {
	session, err := t.client.NewSession(ctx, cat.SeasonPage)
	if err != nil {
		return nil, err
	}

	form := config.PlayerSeasonForm()
	form.Set(config.FieldSeason, strconv.Itoa(season))

	pages, err := session.FetchPages(ctx, form, config.FieldPage, kbo.ParseStatTable)
	if err != nil {
		t.log.Warn().Str("category", cat.Name).Err(err).Msg("team page walk interrupted")
	}

	var records []*table.Record
	for _, page := range pages {
		t.backup.Archive(page.Raw, fmt.Sprintf("team/%d/%s_%d", season, cat.Name, page.Number), "html")
		for _, row := range page.Rows {
			rec := table.NewRecord()
			rec.Set("SEASON_ID", int64(season))
			rec.Merge(table.ConvertStringRow(page.Headers, row))
			records = append(records, rec)
		}
	}
	return records, nil
}
