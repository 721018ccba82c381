package scrape

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fortuna/kbostats/internal/config"
	"github.com/fortuna/kbostats/internal/kbo"
	"github.com/fortuna/kbostats/internal/table"
)

// Spectator collects the daily attendance table. The page is a single
// postback search, not paginated: one session, one submission per
// season.
type Spectator struct {
	deps
}

// NewSpectator builds an attendance scraper.
func NewSpectator(d Deps) *Spectator {
	return &Spectator{deps: newDeps(d)}
}

// RunSeason scrapes one season's daily attendance and persists it as a
// single file. A season with no attendance rows is a reportable
// failure.
func (s *Spectator) RunSeason(ctx context.Context, season int, format string) error {
	if season < config.FirstSpectatorSeason {
		s.log.Info().Int("season", season).
			Msgf("no attendance records before %d, skipping", config.FirstSpectatorSeason)
		return nil
	}

	session, err := s.client.NewSession(ctx, s.endpoints.Spectator)
	if err != nil {
		return err
	}

	form := config.SpectatorForm()
	form.Set(config.FieldCrowdSeason, strconv.Itoa(season))

	body, err := session.Submit(ctx, form)
	if err != nil {
		return err
	}
	headers, rows, err := kbo.ParseStatTable(body)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no attendance data for season %d", season)
	}

	s.backup.Archive(body, fmt.Sprintf("spectator/%d", season), "html")

	records := make([]*table.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, table.ConvertStringRow(headers, row))
	}
	return s.store.Save(records, "spectator", strconv.Itoa(season), format)
}
