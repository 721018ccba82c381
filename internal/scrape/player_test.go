package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fortuna/kbostats/internal/config"
)

const sessionTokenPage = `<html><body><form>
<input type="hidden" id="__VIEWSTATE" value="vs" />
<input type="hidden" id="__EVENTVALIDATION" value="ev" />
</form></body></html>`

func rosterTable(headers string, rows ...string) string {
	body := "<table><thead><tr>" + headers + "</thead><tbody>"
	for _, r := range rows {
		body += r
	}
	return body + "</tbody></table>"
}

func rosterRow(playerID, name string, stat string) string {
	return fmt.Sprintf(`<tr><td>1</td><td><a href="/Detail.aspx?playerId=%s">%s</a></td><td>%s</td></tr>`,
		playerID, name, stat)
}

func TestPlayerScrapeSeasonMergesVariants(t *testing.T) {
	category := config.PlayerCategory{
		Name: "hitter",
		SeasonPages: []string{
			"/Record/Player/HitterBasic/Basic1.aspx?sort=GAME_CN",
			"/Record/Player/HitterBasic/Basic2.aspx?sort=GAME_CN",
		},
		FirstSeason: 1982,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(sessionTokenPage))
			return
		}
		require.NoError(t, r.ParseForm())
		require.Equal(t, "2017", r.PostForm.Get(config.FieldSeason))
		page, err := strconv.Atoi(r.PostForm.Get(config.FieldPage))
		require.NoError(t, err)
		if page > 1 {
			w.Write([]byte(rosterTable(`<th>순위</th><th>선수명</th><th>타율</th>`)))
			return
		}
		switch r.URL.Path {
		case "/Record/Player/HitterBasic/Basic1.aspx":
			w.Write([]byte(rosterTable(`<th>순위</th><th>선수명</th><th>타율</th>`,
				rosterRow("76232", "김선빈", "0.370"),
				rosterRow("60558", "박건우", "0.366"))))
		case "/Record/Player/HitterBasic/Basic2.aspx":
			w.Write([]byte(rosterTable(`<th>순위</th><th>선수명</th><th>홈런</th>`,
				rosterRow("76232", "김선빈", "5"))))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	scraper := NewPlayer(testDeps(t, srv), category)
	records := scraper.scrapeSeason(context.Background(), 2017, category.SeasonPages)
	require.Len(t, records, 2)

	first := records[0]
	require.Equal(t, []string{"LE_ID", "SR_ID", "SEASON_ID", "P_ID", "P_NM", "AVG", "HR"}, first.Keys())
	require.Equal(t, "76232", first.String("P_ID"))
	require.Equal(t, "김선빈", first.String("P_NM"))
	v, _ := first.Get("SEASON_ID")
	require.Equal(t, int64(2017), v)
	v, _ = first.Get("AVG")
	require.Equal(t, 0.37, v)
	v, _ = first.Get("HR")
	require.Equal(t, int64(5), v)

	// The second variant had no row for this player, so its column is
	// simply absent.
	second := records[1]
	require.Equal(t, "박건우", second.String("P_NM"))
	_, ok := second.Get("HR")
	require.False(t, ok)
}

func TestPlayerScrapeDetail(t *testing.T) {
	category := config.PlayerCategory{
		Name:        "hitter",
		SeasonPages: []string{"/Record/Player/HitterBasic/Basic1.aspx?sort=GAME_CN"},
		DetailPage:  "/Record/Player/HitterDetail/%s.aspx?playerId=%s",
		FirstSeason: 1982,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			require.Equal(t, "/Record/Player/HitterDetail/Daily.aspx", r.URL.Path)
			require.Equal(t, "76232", r.URL.Query().Get("playerId"))
			w.Write([]byte(sessionTokenPage))
			return
		}
		require.NoError(t, r.ParseForm())
		require.Equal(t, "2017", r.PostForm.Get(config.FieldDetailYear))
		if r.PostForm.Get(config.FieldDetailSeries) != "0" {
			w.Write([]byte(rosterTable(`<th></th><th>타수</th><th>안타</th>`,
				`<tr><td>기록이 없습니다.</td></tr>`)))
			return
		}
		w.Write([]byte(rosterTable(`<th></th><th>타수</th><th>안타</th>`,
			`<tr><td>04.01</td><td>4</td><td>2</td></tr>`,
			`<tr><td>04.02</td><td>3</td><td>0</td></tr>`)))
	}))
	defer srv.Close()

	scraper := NewPlayer(testDeps(t, srv), category)
	records, err := scraper.scrapeDetail(context.Background(), 2017, "76232", "김선빈",
		detailRecordTypes[0])
	require.NoError(t, err)
	require.Len(t, records, 2)

	rec := records[0]
	require.Equal(t, []string{"LE_ID", "SR_ID", "SEASON_ID", "P_ID", "P_NM", "MO", "AB", "H"}, rec.Keys())
	v, _ := rec.Get("MO")
	require.Equal(t, 4.01, v)
	v, _ = rec.Get("SR_ID")
	require.Equal(t, int64(0), v)
	v, _ = rec.Get("P_ID")
	require.Equal(t, int64(76232), v)
	v, _ = rec.Get("AB")
	require.Equal(t, int64(4), v)
}
