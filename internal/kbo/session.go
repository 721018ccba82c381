package kbo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrSessionUnavailable reports that the hidden form tokens for a
// postback page could not be acquired. Callers skip the whole query that
// needed the session; it is never fatal to the surrounding run.
var ErrSessionUnavailable = errors.New("session unavailable")

// Session is one stateful conversation with an ASP.NET postback page.
// The __VIEWSTATE and __EVENTVALIDATION tokens are scraped once when the
// session starts and injected into every later submission; the site does
// not rotate them across page postbacks within one query.
type Session struct {
	http            *resty.Client
	path            string
	viewState       string
	eventValidation string
	log             zerolog.Logger
}

// NewSession opens a session against the postback page at path: one GET,
// then token extraction from the page's hidden inputs. A transport
// error, missing input or empty token all map to ErrSessionUnavailable.
func (c *Client) NewSession(ctx context.Context, path string) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}

	http := resty.New().
		SetBaseURL(c.baseURL).
		SetTimeout(c.timeout).
		SetCookieJar(jar).
		SetHeader("User-Agent", userAgent)

	res, err := http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrSessionUnavailable, path, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: get %s: unexpected status %s", ErrSessionUnavailable, path, res.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrSessionUnavailable, path, err)
	}

	viewState := strings.TrimSpace(doc.Find("input#__VIEWSTATE").AttrOr("value", ""))
	eventValidation := strings.TrimSpace(doc.Find("input#__EVENTVALIDATION").AttrOr("value", ""))
	if viewState == "" || eventValidation == "" {
		return nil, fmt.Errorf("%w: %s: missing __VIEWSTATE or __EVENTVALIDATION", ErrSessionUnavailable, path)
	}

	return &Session{
		http:            http,
		path:            path,
		viewState:       viewState,
		eventValidation: eventValidation,
		log:             c.log,
	}, nil
}

// Submit posts the form back to the session's page with the session
// tokens applied and returns the raw body.
func (s *Session) Submit(ctx context.Context, form url.Values) ([]byte, error) {
	withTokens := cloneForm(form)
	withTokens.Set("__VIEWSTATE", s.viewState)
	withTokens.Set("__EVENTVALIDATION", s.eventValidation)

	res, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded; charset=utf-8").
		SetFormDataFromValues(withTokens).
		Post(s.path)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", s.path, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("post %s: unexpected status %s", s.path, res.Status())
	}
	return res.Body(), nil
}
