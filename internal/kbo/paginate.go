package kbo

import (
	"context"
	"errors"
	"net/url"
	"strconv"
)

// maxPages caps the page counter so a misbehaving endpoint can never
// keep the loop alive forever.
const maxPages = 9999

// Page is one parsed page of a paginated postback endpoint. Raw keeps
// the undecoded body so callers can archive it for replay.
type Page struct {
	Number  int
	Headers []string
	Rows    [][]string
	Raw     []byte
}

// PageParser turns one raw page body into header texts and data rows.
type PageParser func(body []byte) (headers []string, rows [][]string, err error)

// pageResult is the three-way outcome of fetching one page: rows, the
// true end-of-data signal, or a failure local to that page.
type pageResult struct {
	kind    resultKind
	page    Page
	failure error
}

type resultKind int

const (
	pageOK resultKind = iota
	pageEnd
	pageFailed
)

// FetchPages walks the session's endpoint page by page until the source
// signals end of data: either no header row at all, or headers with zero
// data rows (the page after the last). A transport or parse failure on a
// single page is logged and skipped, because the endpoint occasionally
// returns transient empty bodies. Pages are requested strictly in
// increasing order, one outstanding request at a time, and returned with
// source row order intact. parse is ParsePlayerTable for the roster
// pages and ParseStatTable for everything else.
func (s *Session) FetchPages(ctx context.Context, base url.Values, pageField string, parse PageParser) ([]Page, error) {
	var pages []Page
	for number := 1; number <= maxPages; number++ {
		if err := ctx.Err(); err != nil {
			return pages, err
		}

		res := s.fetchPage(ctx, base, pageField, number, parse)
		switch res.kind {
		case pageFailed:
			s.log.Warn().Str("path", s.path).Int("page", number).Err(res.failure).
				Msg("skipping page")
			continue
		case pageEnd:
			return pages, nil
		default:
			pages = append(pages, res.page)
		}
	}
	return pages, nil
}

func (s *Session) fetchPage(ctx context.Context, base url.Values, pageField string, number int, parse PageParser) pageResult {
	form := cloneForm(base)
	form.Set(pageField, strconv.Itoa(number))

	body, err := s.Submit(ctx, form)
	if err != nil {
		return pageResult{kind: pageFailed, failure: err}
	}

	headers, rows, err := parse(body)
	if errors.Is(err, ErrNoTable) {
		return pageResult{kind: pageEnd}
	}
	if err != nil {
		return pageResult{kind: pageFailed, failure: err}
	}
	if len(rows) == 0 {
		// Last page reached: headers survive but the body is empty.
		return pageResult{kind: pageEnd}
	}

	return pageResult{kind: pageOK, page: Page{
		Number:  number,
		Headers: headers,
		Rows:    rows,
		Raw:     body,
	}}
}
