package kbo

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoTable reports a page without a stat table header row. For a
// paginated endpoint this is the true end-of-data signal, distinct from
// a page that has headers but no rows.
var ErrNoTable = errors.New("response has no stat table")

var playerIDPattern = regexp.MustCompile(`playerId=(\d+)`)

// ParseStatTable extracts the header texts and data rows of the single
// stat table on a postback page.
func ParseStatTable(body []byte) (headers []string, rows [][]string, err error) {
	return parseTable(body, false)
}

// ParsePlayerTable is ParseStatTable for the player roster pages, whose
// rows each carry the player's numeric id inside an anchor href. The id
// is prepended to every row under the synthetic P_ID header.
func ParsePlayerTable(body []byte) (headers []string, rows [][]string, err error) {
	return parseTable(body, true)
}

func parseTable(body []byte, withPlayerID bool) ([]string, [][]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("parse stat table: %w", err)
	}

	head := doc.Find("thead tr").First()
	if head.Length() == 0 {
		return nil, nil, ErrNoTable
	}

	var headers []string
	if withPlayerID {
		headers = append(headers, "P_ID")
	}
	head.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})

	var rows [][]string
	var rowErr error
	doc.Find("tbody tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		var row []string
		if withPlayerID {
			href := tr.Find("a").First().AttrOr("href", "")
			m := playerIDPattern.FindStringSubmatch(href)
			if m == nil {
				rowErr = fmt.Errorf("parse stat table: row missing playerId anchor")
				return false
			}
			row = append(row, m[1])
		}
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})
		rows = append(rows, row)
		return true
	})
	if rowErr != nil {
		return nil, nil, rowErr
	}

	return headers, rows, nil
}
