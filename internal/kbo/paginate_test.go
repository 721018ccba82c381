package kbo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// pageServer serves the token page on GET and delegates POSTs, keyed by
// the hfPage form value, to render.
func pageServer(t *testing.T, render func(w http.ResponseWriter, page int)) (*httptest.Server, *int) {
	t.Helper()
	var highest int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(tokenPage))
			return
		}
		require.NoError(t, r.ParseForm())
		page, err := strconv.Atoi(r.PostForm.Get("hfPage"))
		require.NoError(t, err)
		if page > highest {
			highest = page
		}
		render(w, page)
	}))
	return srv, &highest
}

func statPage(rows int) string {
	body := `<table><thead><tr><th>팀명</th></tr></thead><tbody>`
	for i := 0; i < rows; i++ {
		body += fmt.Sprintf(`<tr><td>row %d</td></tr>`, i)
	}
	return body + `</tbody></table>`
}

func TestFetchPagesStopsAtEmptyPage(t *testing.T) {
	srv, highest := pageServer(t, func(w http.ResponseWriter, page int) {
		if page <= 3 {
			fmt.Fprint(w, statPage(2))
			return
		}
		// The page after the last keeps its headers but has no rows.
		fmt.Fprint(w, statPage(0))
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, zerolog.Nop())
	session, err := client.NewSession(context.Background(), "/stats.aspx")
	require.NoError(t, err)

	pages, err := session.FetchPages(context.Background(), url.Values{}, "hfPage", ParseStatTable)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i, page := range pages {
		require.Equal(t, i+1, page.Number)
		require.Len(t, page.Rows, 2)
	}
	require.Equal(t, 4, *highest, "page 5 must never be requested")
}

func TestFetchPagesStopsAtMissingTable(t *testing.T) {
	srv, _ := pageServer(t, func(w http.ResponseWriter, page int) {
		if page == 1 {
			fmt.Fprint(w, statPage(1))
			return
		}
		fmt.Fprint(w, `<html><body>no table</body></html>`)
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, zerolog.Nop())
	session, err := client.NewSession(context.Background(), "/stats.aspx")
	require.NoError(t, err)

	pages, err := session.FetchPages(context.Background(), url.Values{}, "hfPage", ParseStatTable)
	require.NoError(t, err)
	require.Len(t, pages, 1)
}

func TestFetchPagesSkipsFailedPage(t *testing.T) {
	srv, _ := pageServer(t, func(w http.ResponseWriter, page int) {
		switch page {
		case 2:
			http.Error(w, "transient", http.StatusInternalServerError)
		case 4:
			fmt.Fprint(w, statPage(0))
		default:
			fmt.Fprint(w, statPage(1))
		}
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, zerolog.Nop())
	session, err := client.NewSession(context.Background(), "/stats.aspx")
	require.NoError(t, err)

	pages, err := session.FetchPages(context.Background(), url.Values{}, "hfPage", ParseStatTable)
	require.NoError(t, err)

	numbers := make([]int, len(pages))
	for i, page := range pages {
		numbers[i] = page.Number
	}
	require.Equal(t, []int{1, 3}, numbers)
}

func TestFetchPagesCancelled(t *testing.T) {
	srv, _ := pageServer(t, func(w http.ResponseWriter, page int) {
		fmt.Fprint(w, statPage(1))
	})
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, zerolog.Nop())
	session, err := client.NewSession(context.Background(), "/stats.aspx")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = session.FetchPages(ctx, url.Values{}, "hfPage", ParseStatTable)
	require.ErrorIs(t, err, context.Canceled)
}
