package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoints lists every path the scrapers touch, relative to the
// client's base URL.
type Endpoints struct {
	GameList   string
	Scoreboard string
	BoxScore   string
	Spectator  string
}

// DefaultEndpoints returns the production endpoint table.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		GameList:   "/ws/Main.asmx/GetKboGameList",
		Scoreboard: "/ws/Schedule.asmx/GetScoreBoardScroll",
		BoxScore:   "/ws/Schedule.asmx/GetBoxScoreScroll",
		Spectator:  "/Record/Crowd/GraphDaily.aspx",
	}
}

// DefaultSeriesIDs is the series filter the schedule endpoint is queried
// with when the user does not narrow it: every competition phase the
// site knows about.
var DefaultSeriesIDs = []string{"0", "1", "3", "4", "5", "6", "7", "8", "9"}

// DetailSeriesIDs enumerates the series the per-player detail pages can
// be postback-switched to (regular season, postseason rounds).
var DetailSeriesIDs = []string{"0", "1", "3", "4", "5", "7"}

// controlPrefix is the ASP.NET naming-container path every form control
// on the record pages lives under.
const controlPrefix = "ctl00$ctl00$ctl00$cphContents$cphContents$cphContents$"

// Postback control names for the record pages.
const (
	FieldPage         = controlPrefix + "hfPage"
	FieldSeason       = controlPrefix + "ddlSeason$ddlSeason"
	FieldDetailSeries = controlPrefix + "ddlSeries"
	FieldDetailYear   = controlPrefix + "ddlYear"
	FieldCrowdSeason  = controlPrefix + "ddlSeason"
)

// ScheduleForm returns a fresh payload for the schedule endpoint with
// the given series filter.
func ScheduleForm(seriesIDs []string) url.Values {
	return url.Values{
		"leId": {"1"},
		"srId": {strings.Join(seriesIDs, ",")},
	}
}

// GameForm returns a fresh payload for the scoreboard and box-score
// endpoints. The caller fills in srId, seasonId and gameId per game.
func GameForm() url.Values {
	return url.Values{
		"leId": {"1"},
	}
}

// PlayerSeasonForm returns a fresh postback payload for the season stat
// pages, ordered by games played so pagination is stable.
func PlayerSeasonForm() url.Values {
	return url.Values{
		controlPrefix + "smData":              {controlPrefix + "udpContent|" + controlPrefix + "lbtnOrderBy"},
		controlPrefix + "ddlSeries$ddlSeries": {"0"},
		controlPrefix + "hfOrderByCol":        {"GAME_CN"},
		controlPrefix + "hfOrderBy":           {"DESC"},
		"__EVENTTARGET":                       {controlPrefix + "lbtnOrderBy"},
	}
}

// PlayerDetailForm returns a fresh postback payload for the per-player
// detail pages; the series dropdown is the postback target.
func PlayerDetailForm() url.Values {
	return url.Values{
		"__EVENTTARGET": {controlPrefix + "ddlSeries"},
	}
}

// SpectatorForm returns a fresh postback payload for the daily
// attendance page.
func SpectatorForm() url.Values {
	return url.Values{
		controlPrefix + "ScriptManager1": {controlPrefix + "udpRecord|" + controlPrefix + "btnSearch"},
		controlPrefix + "ddlMonth":       {"0"},
		controlPrefix + "ddlDayOfWeek":   {"0"},
		controlPrefix + "btnSearch":      {"검색"},
	}
}

// PlayerCategory describes one stat category and the endpoints that
// exist for it. Which categories have which table variants is
// configuration data, not something inferred from code structure: the
// fielder and runner categories have a single season table, no detail
// pages, and no records before 2001.
type PlayerCategory struct {
	Name        string
	SeasonPages []string
	DetailPage  string
	FirstSeason int
}

// HasDetail reports whether per-player detail pages exist for the
// category.
func (c PlayerCategory) HasDetail() bool {
	return c.DetailPage != ""
}

// DetailPath builds the per-player detail page path for a record type
// ("Daily" or "Situation") and player id.
func (c PlayerCategory) DetailPath(recordType, playerID string) string {
	return fmt.Sprintf(c.DetailPage, recordType, playerID)
}

// PlayerCategories returns the category table. Season page variants of
// one category are column subsets of the same season table and merge
// into one record per player.
func PlayerCategories() []PlayerCategory {
	return []PlayerCategory{
		{
			Name: "hitter",
			SeasonPages: []string{
				"/Record/Player/HitterBasic/Basic1.aspx?sort=GAME_CN",
				"/Record/Player/HitterBasic/Basic2.aspx?sort=GAME_CN",
				"/Record/Player/HitterBasic/Detail1.aspx?sort=GAME_CN",
			},
			DetailPage:  "/Record/Player/HitterDetail/%s.aspx?playerId=%s",
			FirstSeason: 1982,
		},
		{
			Name: "pitcher",
			SeasonPages: []string{
				"/Record/Player/PitcherBasic/Basic1.aspx?sort=GAME_CN",
				"/Record/Player/PitcherBasic/Basic2.aspx?sort=GAME_CN",
				"/Record/Player/PitcherBasic/Detail1.aspx?sort=GAME_CN",
				"/Record/Player/PitcherBasic/Detail2.aspx?sort=GAME_CN",
			},
			DetailPage:  "/Record/Player/PitcherDetail/%s.aspx?playerId=%s",
			FirstSeason: 1982,
		},
		{
			Name: "fielder",
			SeasonPages: []string{
				"/Record/Player/Defense/Basic.aspx?sort=GAME_CN",
			},
			FirstSeason: 2001,
		},
		{
			Name: "runner",
			SeasonPages: []string{
				"/Record/Player/Runner/Basic.aspx?sort=GAME_CN",
			},
			FirstSeason: 2001,
		},
	}
}

// PlayerCategoryByName looks a category up by its CLI name.
func PlayerCategoryByName(name string) (PlayerCategory, bool) {
	for _, c := range PlayerCategories() {
		if c.Name == name {
			return c, true
		}
	}
	return PlayerCategory{}, false
}

// TeamCategory describes one season-level team stat table.
type TeamCategory struct {
	Name        string
	SeasonPage  string
	FirstSeason int
}

// TeamCategories returns the team stat table per category.
func TeamCategories() []TeamCategory {
	return []TeamCategory{
		{Name: "hitter", SeasonPage: "/Record/Team/Hitter/Basic1.aspx", FirstSeason: 1982},
		{Name: "pitcher", SeasonPage: "/Record/Team/Pitcher/Basic1.aspx", FirstSeason: 1982},
	}
}

// First seasons with any data per top-level category.
const (
	FirstScheduleSeason  = 2001
	FirstSpectatorSeason = 2023
)
