package kbo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeGameList(t *testing.T) {
	body := `{"code":"100","game":[
		{"LE_ID":1,"SR_ID":0,"G_DT":20141111,"G_ID":"20141111SSWO0","AWAY_NM":"삼성","HOME_NM":"넥센"},
		{"LE_ID":1,"SR_ID":0,"G_DT":20141111,"G_ID":"20141111LGNC0","AWAY_NM":"LG","HOME_NM":"NC"}]}`

	list, err := DecodeGameList([]byte(body))
	require.NoError(t, err)
	require.True(t, list.OK())
	require.Len(t, list.Games, 2)

	// Header order must match wire key order exactly.
	require.Equal(t,
		[]string{"LE_ID", "SR_ID", "G_DT", "G_ID", "AWAY_NM", "HOME_NM"},
		list.Games[0].Headers())

	cells := list.Games[0].Cells()
	require.Equal(t, json.Number("20141111"), cells[2])
	require.Equal(t, "20141111SSWO0", cells[3])
}

func TestDecodeGameListRejected(t *testing.T) {
	list, err := DecodeGameList([]byte(`{"code":"9","game":[]}`))
	require.NoError(t, err)
	require.False(t, list.OK())
	require.Empty(t, list.Games)
}

func TestDecodeGameListMalformed(t *testing.T) {
	_, err := DecodeGameList([]byte(`<html>error page</html>`))
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func fragmentJSON(cells ...[]string) string {
	type cell struct {
		Text string `json:"Text"`
	}
	type row struct {
		Row []cell `json:"row"`
	}
	var rows []row
	for _, texts := range cells {
		r := row{}
		for _, text := range texts {
			r.Row = append(r.Row, cell{Text: text})
		}
		rows = append(rows, r)
	}
	data, _ := json.Marshal(struct {
		Rows []row `json:"rows"`
	}{rows})
	return string(data)
}

func TestDecodeScoreboard(t *testing.T) {
	letters := fragmentJSON([]string{"패", ""}, []string{"승", ""})
	innings := fragmentJSON([]string{"0", "1", "2"}, []string{"1", "1", "2"})
	totals := fragmentJSON([]string{"3", "7", "0", "2"}, []string{"4", "9", "1", "3"})

	body := fmt.Sprintf(`{"code":100,"AWAY_NM":"삼성","HOME_NM":"넥센","G_DT":20141111,
		"maxInning":3,"table1":%s,"table2":%s,"table3":%s}`,
		strconv.Quote(letters), strconv.Quote(innings), strconv.Quote(totals))

	sb, err := DecodeScoreboard([]byte(body))
	require.NoError(t, err)
	require.True(t, sb.OK())
	require.Equal(t, 3, sb.MaxInning)

	metaKeys := make([]string, len(sb.Meta))
	for i, f := range sb.Meta {
		metaKeys[i] = f.Key
	}
	require.Equal(t, []string{"AWAY_NM", "HOME_NM", "G_DT"}, metaKeys)

	require.Len(t, sb.Tables, 3)
	require.Len(t, sb.Tables[0].Rows, 2)
}

func TestDecodeScoreboardNoTables(t *testing.T) {
	_, err := DecodeScoreboard([]byte(`{"code":100,"maxInning":9}`))
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestDecodeBoxScore(t *testing.T) {
	hitterMeta := fragmentJSON([]string{"1", "중", "박해민"})
	hitterInnings := fragmentJSON([]string{"안", "-", "삼"})
	hitterTotals := fragmentJSON([]string{"4", "1", "0", "1", "0.320"})
	pitcher := fragmentJSON([]string{"밴덴헐크", "선발", "패", "0", "1", "0", "6", "25", "98", "23", "5", "1", "2", "8", "2", "2", "3.18"})

	side := fmt.Sprintf(`{"table1":%s,"table2":%s,"table3":%s}`,
		strconv.Quote(hitterMeta), strconv.Quote(hitterInnings), strconv.Quote(hitterTotals))
	body := fmt.Sprintf(`{"code":100,"realMaxInning":9,
		"arrHitter":[%s,%s],
		"arrPitcher":[{"table":%s},{"table":%s}]}`,
		side, side, strconv.Quote(pitcher), strconv.Quote(pitcher))

	bs, err := DecodeBoxScore([]byte(body))
	require.NoError(t, err)
	require.True(t, bs.OK())
	require.Equal(t, 9, bs.RealMaxInning)

	for _, s := range Sides {
		require.Len(t, bs.Hitters[s][0].Rows, 1)
		require.Len(t, bs.Hitters[s][2].Rows, 1)
		require.Len(t, bs.Pitchers[s].Rows, 1)
	}
}

func TestDecodeBoxScoreMissingSide(t *testing.T) {
	body := fmt.Sprintf(`{"code":100,"realMaxInning":9,
		"arrHitter":[{"table1":%[1]s,"table2":%[1]s,"table3":%[1]s}],
		"arrPitcher":[{"table":%[1]s}]}`,
		strconv.Quote(fragmentJSON([]string{"x"})))
	_, err := DecodeBoxScore([]byte(body))
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestSideLabels(t *testing.T) {
	require.Equal(t, "A", Away.Label())
	require.Equal(t, "H", Home.Label())
}
