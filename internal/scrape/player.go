package scrape

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fortuna/kbostats/internal/config"
	"github.com/fortuna/kbostats/internal/kbo"
	"github.com/fortuna/kbostats/internal/table"
)

// noDataSentinel is the single-cell row the detail pages render instead
// of stats when a player has no record for the selected series.
const noDataSentinel = "기록이 없습니다."

// detailRecordType pairs a per-player detail page with the header name
// of its first column, which the site leaves blank.
type detailRecordType struct {
	Name        string
	Page        string
	FirstColumn string
}

var detailRecordTypes = []detailRecordType{
	{Name: "daily", Page: "Daily", FirstColumn: "MO"},
	{Name: "situation", Page: "Situation", FirstColumn: "SIT"},
}

// Player collects season stat lines and per-player detail records for
// one stat category (hitter, pitcher, fielder, runner).
type Player struct {
	deps
	category config.PlayerCategory
}

// NewPlayer builds a player scraper for one category.
func NewPlayer(d Deps, category config.PlayerCategory) *Player {
	return &Player{deps: newDeps(d), category: category}
}

// RunSeason scrapes the category's season table for one season: every
// page variant walked to its last page, the variants' columns merged
// into one record per player.
func (p *Player) RunSeason(ctx context.Context, season int, format string) error {
	if season < p.category.FirstSeason {
		p.log.Info().Str("category", p.category.Name).Int("season", season).
			Msgf("no records before %d, skipping", p.category.FirstSeason)
		return nil
	}

	records := p.scrapeSeason(ctx, season, p.category.SeasonPages)
	if len(records) == 0 {
		return fmt.Errorf("no %s data for season %d", p.category.Name, season)
	}
	return p.store.Save(records, "player/"+strconv.Itoa(season), p.category.Name, format)
}

// scrapeSeason walks the given season page variants and merges their
// rows by player id, preserving the roster order of the first variant a
// player appears on. A variant whose session cannot be opened is logged
// and skipped; its columns are simply absent from the merge.
func (p *Player) scrapeSeason(ctx context.Context, season int, pages []string) []*table.Record {
	byID := make(map[string]*table.Record)
	var order []string

	for variant, path := range pages {
		session, err := p.client.NewSession(ctx, path)
		if err != nil {
			p.log.Warn().Str("path", path).Err(err).Msg("skipping season page variant")
			continue
		}

		form := config.PlayerSeasonForm()
		form.Set(config.FieldSeason, strconv.Itoa(season))

		fetched, err := session.FetchPages(ctx, form, config.FieldPage, kbo.ParsePlayerTable)
		if err != nil {
			p.log.Warn().Str("path", path).Err(err).Msg("season page walk interrupted")
		}

		for _, page := range fetched {
			p.backup.Archive(page.Raw, fmt.Sprintf("player/%d/%s/season_%d_%d",
				season, p.category.Name, variant+1, page.Number), "html")

			for _, row := range page.Rows {
				if len(row) == 0 {
					continue
				}
				playerID := row[0]
				rec, ok := byID[playerID]
				if !ok {
					rec = table.NewRecord()
					rec.Set("LE_ID", int64(1))
					rec.Set("SR_ID", int64(0))
					rec.Set("SEASON_ID", int64(season))
					byID[playerID] = rec
					order = append(order, playerID)
				}
				rec.Merge(table.ConvertStringRow(page.Headers, row))
			}
		}
	}

	records := make([]*table.Record, 0, len(order))
	for _, id := range order {
		records = append(records, byID[id])
	}
	return records
}

// RunDetail scrapes the per-player detail pages for one season. The
// roster comes from the first season page variant; each player then gets
// one file per record type under their own directory. A player whose
// detail pages fail is logged and skipped.
func (p *Player) RunDetail(ctx context.Context, season int, format string) error {
	if !p.category.HasDetail() {
		p.log.Info().Str("category", p.category.Name).Msg("category has no detail pages")
		return nil
	}
	if season < p.category.FirstSeason {
		p.log.Info().Str("category", p.category.Name).Int("season", season).
			Msgf("no records before %d, skipping", p.category.FirstSeason)
		return nil
	}

	roster := p.scrapeSeason(ctx, season, p.category.SeasonPages[:1])
	if len(roster) == 0 {
		return fmt.Errorf("no %s roster for season %d", p.category.Name, season)
	}

	for _, player := range roster {
		if ctx.Err() != nil {
			p.log.Warn().Err(ctx.Err()).Msg("detail scrape interrupted")
			break
		}

		playerID := player.String("P_ID")
		name := player.String("P_NM")
		if playerID == "" {
			p.log.Warn().Str("name", name).Msg("roster record without player id, skipping")
			continue
		}

		p.log.Info().Str("category", p.category.Name).Str("player", name).
			Str("player_id", playerID).Msg("scraping player detail")

		for _, rt := range detailRecordTypes {
			records, err := p.scrapeDetail(ctx, season, playerID, name, rt)
			if err != nil {
				p.log.Warn().Str("player_id", playerID).Str("type", rt.Name).Err(err).
					Msg("skipping detail page")
				continue
			}
			if len(records) == 0 {
				continue
			}
			category := fmt.Sprintf("player/%d/%s/%s", season, p.category.Name, playerID)
			if err := p.store.Save(records, category, rt.Name, format); err != nil {
				return err
			}
		}
	}
	return nil
}

// scrapeDetail walks one player's detail page across every series,
// switching the series dropdown by postback within a single session. A
// series without records renders the no-data sentinel and contributes
// nothing.
func (p *Player) scrapeDetail(ctx context.Context, season int, playerID, name string, rt detailRecordType) ([]*table.Record, error) {
	path := p.category.DetailPath(rt.Page, playerID)
	session, err := p.client.NewSession(ctx, path)
	if err != nil {
		return nil, err
	}

	var records []*table.Record
	for _, series := range config.DetailSeriesIDs {
		form := config.PlayerDetailForm()
		form.Set(config.FieldDetailYear, strconv.Itoa(season))
		form.Set(config.FieldDetailSeries, series)

		body, err := session.Submit(ctx, form)
		if err != nil {
			p.log.Warn().Str("player_id", playerID).Str("series", series).Err(err).
				Msg("skipping detail series")
			continue
		}

		headers, rows, err := kbo.ParseStatTable(body)
		if err != nil {
			p.log.Warn().Str("player_id", playerID).Str("series", series).Err(err).
				Msg("skipping detail series")
			continue
		}
		if len(rows) == 1 && len(rows[0]) == 1 && rows[0][0] == noDataSentinel {
			continue
		}

		p.backup.Archive(body, fmt.Sprintf("player/%d/%s/%s/%s_%s",
			season, p.category.Name, playerID, rt.Name, series), "html")

		if len(headers) > 0 {
			headers[0] = rt.FirstColumn
		}
		for _, row := range rows {
			rec := table.NewRecord()
			rec.Set("LE_ID", int64(1))
			rec.Set("SR_ID", table.NormalizeValue(series))
			rec.Set("SEASON_ID", int64(season))
			rec.Set("P_ID", table.NormalizeValue(playerID))
			rec.Set("P_NM", name)
			rec.Merge(table.ConvertStringRow(headers, row))
			records = append(records, rec)
		}
	}
	return records, nil
}
