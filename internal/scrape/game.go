package scrape

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/kbostats/internal/config"
	"github.com/fortuna/kbostats/internal/kbo"
	"github.com/fortuna/kbostats/internal/store"
	"github.com/fortuna/kbostats/internal/table"
)

// Game enriches schedule records with per-game line scores and player
// box-score lines. Two stateless form submissions per game, keyed by the
// (series id, season id, game id) triple found on the schedule record.
type Game struct {
	deps
	schedule *Schedule
}

// NewGame builds a game scraper that discovers games through the given
// series filter.
func NewGame(d Deps, seriesIDs []string) *Game {
	return &Game{
		deps:     newDeps(d),
		schedule: NewSchedule(d, seriesIDs),
	}
}

// dayRecords groups one date's emitted records by output file.
type dayRecords struct {
	date     string
	summary  []*table.Record
	hitters  []*table.Record
	pitchers []*table.Record
}

// RunSeason scrapes every game of a season.
func (g *Game) RunSeason(ctx context.Context, season int, format string) error {
	start := time.Date(season, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(season, time.December, 31, 0, 0, 0, 0, time.UTC)
	return g.run(ctx, g.schedule.ScrapeRange(ctx, start, end), format)
}

// RunDate scrapes the games of a single date (YYYYMMDD).
func (g *Game) RunDate(ctx context.Context, date string, format string) error {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYYMMDD", date)
	}
	return g.run(ctx, g.schedule.ScrapeRange(ctx, day, day), format)
}

// RunFromFile re-reads a previously saved schedule file and scrapes the
// games it lists, so a partial run can be resumed without re-walking the
// schedule endpoint.
func (g *Game) RunFromFile(ctx context.Context, path string, format string) error {
	schedules, err := store.Load(path)
	if err != nil {
		return fmt.Errorf("load schedule %s: %w", path, err)
	}
	return g.run(ctx, schedules, format)
}

// run walks the schedule records one game at a time. A game that fails
// to fetch or parse is logged and skipped; game collection is
// best-effort and an empty aggregate is not a run failure.
func (g *Game) run(ctx context.Context, schedules []*table.Record, format string) error {
	if len(schedules) == 0 {
		g.log.Warn().Msg("no schedule records to scrape games for")
		return nil
	}

	byDate := make(map[string]*dayRecords)
	var order []*dayRecords
	for _, sched := range schedules {
		if ctx.Err() != nil {
			g.log.Warn().Err(ctx.Err()).Msg("game scrape interrupted")
			break
		}

		gameID := sched.String("G_ID")
		if gameID == "" {
			g.log.Warn().Msg("schedule record without game id, skipping")
			continue
		}
		date := gameDate(sched, gameID)
		srID := sched.String("SR_ID")
		seasonID := sched.String("SEASON_ID")

		day, ok := byDate[date]
		if !ok {
			day = &dayRecords{date: date}
			byDate[date] = day
			order = append(order, day)
		}

		g.log.Info().Str("game_id", gameID).Msg("scraping game")

		summary, err := g.scrapeSummary(ctx, srID, seasonID, gameID)
		if err != nil {
			g.log.Warn().Str("game_id", gameID).Err(err).Msg("skipping line score")
		} else {
			day.summary = append(day.summary, summary...)
		}

		hitters, pitchers, err := g.scrapeBoxScore(ctx, srID, seasonID, gameID)
		if err != nil {
			g.log.Warn().Str("game_id", gameID).Err(err).Msg("skipping box score")
			continue
		}
		day.hitters = append(day.hitters, hitters...)
		day.pitchers = append(day.pitchers, pitchers...)
	}

	for _, day := range order {
		category := fmt.Sprintf("game/%s/%s", day.date[:4], day.date)
		if err := g.store.Save(day.summary, category, "summary", format); err != nil {
			return err
		}
		if err := g.store.Save(day.hitters, category, "hitters", format); err != nil {
			return err
		}
		if err := g.store.Save(day.pitchers, category, "pitchers", format); err != nil {
			return err
		}
	}
	return nil
}

// gameDate prefers the schedule's G_DT column and falls back to the
// date prefix of the game id.
func gameDate(sched *table.Record, gameID string) string {
	if date := sched.String("G_DT"); len(date) >= 8 {
		return date[:8]
	}
	return datePrefix(gameID)
}

func datePrefix(gameID string) string {
	if len(gameID) >= 8 {
		return gameID[:8]
	}
	return gameID
}

// scrapeSummary fetches the line score for one game and emits exactly
// two records, away then home, each tagged with its H/A side.
func (g *Game) scrapeSummary(ctx context.Context, srID, seasonID, gameID string) ([]*table.Record, error) {
	body, err := g.postGame(ctx, g.endpoints.Scoreboard, srID, seasonID, gameID)
	if err != nil {
		return nil, err
	}
	sb, err := kbo.DecodeScoreboard(body)
	if err != nil {
		return nil, err
	}
	if !sb.OK() {
		return nil, fmt.Errorf("scoreboard rejected game %s (code %d)", gameID, sb.Code)
	}

	fused, err := table.Fuse(sb.Tables)
	if err != nil {
		return nil, err
	}
	if len(fused) != 2 {
		return nil, fmt.Errorf("%w: line score has %d rows, expected 2", kbo.ErrMalformedResponse, len(fused))
	}

	g.backup.Archive(body, fmt.Sprintf("game/result/%s/%s", seasonID, datePrefix(gameID)), "json")

	headers := summaryHeaders(sb)
	meta := make([]any, len(sb.Meta))
	for i, f := range sb.Meta {
		meta[i] = f.Value
	}

	records := make([]*table.Record, 0, 2)
	for _, side := range kbo.Sides {
		cells := make([]any, 0, len(meta)+len(fused[side]))
		cells = append(cells, meta...)
		for _, c := range fused[side] {
			cells = append(cells, c)
		}

		rec := table.NewRecord()
		rec.Set("G_ID", gameID)
		rec.Set("H/A", side.Label())
		rec.Merge(table.ConvertRow(headers, cells))
		records = append(records, rec)
	}
	return records, nil
}

// summaryHeaders lays out the fused line-score columns: the shared meta
// fields, the result letters, one column per inning, then the
// runs/hits/errors/balls totals.
func summaryHeaders(sb *kbo.Scoreboard) []string {
	headers := make([]string, 0, len(sb.Meta)+sb.MaxInning+6)
	for _, f := range sb.Meta {
		headers = append(headers, strings.TrimSpace(f.Key))
	}
	headers = append(headers, "W/L", "W/L/T")
	for i := 1; i <= sb.MaxInning; i++ {
		headers = append(headers, "INN_"+strconv.Itoa(i))
	}
	return append(headers, "R", "H", "E", "B")
}

// scrapeBoxScore fetches the per-player stat lines for one game: three
// zipped fragments per side for hitters, one fragment per side for
// pitchers.
func (g *Game) scrapeBoxScore(ctx context.Context, srID, seasonID, gameID string) (hitters, pitchers []*table.Record, err error) {
	body, err := g.postGame(ctx, g.endpoints.BoxScore, srID, seasonID, gameID)
	if err != nil {
		return nil, nil, err
	}
	bs, err := kbo.DecodeBoxScore(body)
	if err != nil {
		return nil, nil, err
	}
	if !bs.OK() {
		return nil, nil, fmt.Errorf("box score rejected game %s (code %d)", gameID, bs.Code)
	}

	g.backup.Archive(body, fmt.Sprintf("game/stats/%s/%s", seasonID, datePrefix(gameID)), "json")

	hitterCols := hitterHeaders(bs.RealMaxInning)
	for _, side := range kbo.Sides {
		rows, err := table.Fuse(bs.Hitters[side][:])
		if err != nil {
			g.log.Warn().Str("game_id", gameID).Str("side", side.Label()).Err(err).
				Msg("skipping hitter lines")
		} else {
			hitters = append(hitters, g.sideRecords(gameID, side, hitterCols, rows)...)
		}

		rows, err = table.Fuse([]table.Fragment{bs.Pitchers[side]})
		if err != nil {
			g.log.Warn().Str("game_id", gameID).Str("side", side.Label()).Err(err).
				Msg("skipping pitcher lines")
			continue
		}
		pitchers = append(pitchers, g.sideRecords(gameID, side, pitcherHeaders, rows)...)
	}
	return hitters, pitchers, nil
}

// sideRecords tags each fused row with its game id and H/A side before
// normalization.
func (g *Game) sideRecords(gameID string, side kbo.Side, headers []string, rows [][]string) []*table.Record {
	records := make([]*table.Record, 0, len(rows))
	for _, row := range rows {
		rec := table.NewRecord()
		rec.Set("G_ID", gameID)
		rec.Set("H/A", side.Label())
		rec.Merge(table.ConvertStringRow(headers, row))
		records = append(records, rec)
	}
	return records
}

func (g *Game) postGame(ctx context.Context, path, srID, seasonID, gameID string) ([]byte, error) {
	form := config.GameForm()
	form.Set("srId", srID)
	form.Set("seasonId", seasonID)
	form.Set("gameId", gameID)
	return g.client.PostForm(ctx, path, form)
}

// hitterHeaders lays out the fused hitter columns: lineup identity, one
// column per played inning, then the game totals.
func hitterHeaders(innings int) []string {
	headers := []string{"BAT", "POS", "선수명"}
	for i := 1; i <= innings; i++ {
		headers = append(headers, "INN_"+strconv.Itoa(i))
	}
	return append(headers, "타수", "안타", "타점", "득점", "타율")
}

// pitcherHeaders is the fixed column layout of the pitcher fragment.
var pitcherHeaders = []string{
	"선수명", "등판", "결과", "승", "패", "세", "이닝", "타자", "투구수",
	"타수", "피안타", "홈런", "4사구", "삼진", "실점", "자책", "평균자책점",
}
