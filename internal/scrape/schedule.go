package scrape

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fortuna/kbostats/internal/config"
	"github.com/fortuna/kbostats/internal/kbo"
	"github.com/fortuna/kbostats/internal/table"
)

// Schedule collects the league's game schedule. The endpoint is queried
// one date at a time; a single JSON response carries the whole day's
// games or nothing.
type Schedule struct {
	deps
	series []string
}

// NewSchedule builds a schedule scraper restricted to the given series
// ids (all series when empty).
func NewSchedule(d Deps, seriesIDs []string) *Schedule {
	if len(seriesIDs) == 0 {
		seriesIDs = config.DefaultSeriesIDs
	}
	return &Schedule{deps: newDeps(d), series: seriesIDs}
}

// RunSeason scrapes one season's schedule and persists it as a single
// file. A season that yields no games at all is a reportable failure.
func (s *Schedule) RunSeason(ctx context.Context, season int, format string) error {
	start := time.Date(season, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(season, time.December, 31, 0, 0, 0, 0, time.UTC)

	records := s.ScrapeRange(ctx, start, end)
	if len(records) == 0 {
		return fmt.Errorf("no schedule data for season %d", season)
	}
	return s.store.Save(records, "schedule", strconv.Itoa(season), format)
}

// ScrapeRange walks the date range day by day in order. A failed date
// is logged and skipped; it never aborts the range.
func (s *Schedule) ScrapeRange(ctx context.Context, start, end time.Time) []*table.Record {
	var records []*table.Record
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if ctx.Err() != nil {
			s.log.Warn().Err(ctx.Err()).Msg("schedule scrape interrupted")
			break
		}

		date := day.Format(dateLayout)
		recs, err := s.ScrapeDay(ctx, date)
		if err != nil {
			s.log.Warn().Str("date", date).Err(err).Msg("skipping date")
			continue
		}
		records = append(records, recs...)
	}
	return records
}

// ScrapeDay fetches one date's games. A response that carries a
// non-success code or an empty game list means no games that day, which
// is an empty result, not an error.
func (s *Schedule) ScrapeDay(ctx context.Context, date string) ([]*table.Record, error) {
	form := config.ScheduleForm(s.series)
	form.Set("date", date)

	body, err := s.client.PostForm(ctx, s.endpoints.GameList, form)
	if err != nil {
		return nil, err
	}
	list, err := kbo.DecodeGameList(body)
	if err != nil {
		return nil, err
	}
	if !list.OK() || len(list.Games) == 0 {
		s.log.Debug().Str("date", date).Int("code", list.Code).Msg("no games")
		return nil, nil
	}

	s.backup.Archive(body, fmt.Sprintf("schedule/%s/%s", date[:4], date), "json")

	s.log.Info().Str("date", date).Int("games", len(list.Games)).Msg("fetched schedule")
	records := make([]*table.Record, 0, len(list.Games))
	for _, game := range list.Games {
		records = append(records, table.ConvertRow(game.Headers(), game.Cells()))
	}
	return records, nil
}
