// Package kbo speaks the wire protocol of the KBO statistics site: the
// form-encoded JSON endpoints, the ASP.NET postback pages with their
// hidden session tokens, and the composite table responses both return.
package kbo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production site. Tests point the client at a
// stub server instead.
const DefaultBaseURL = "https://www.koreabaseball.com"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Client submits form requests against the stateless JSON endpoints and
// spawns sessions for the stateful postback pages.
type Client struct {
	http    *resty.Client
	baseURL string
	timeout time.Duration
	log     zerolog.Logger
}

// NewClient builds a client rooted at baseURL (DefaultBaseURL when
// empty).
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	return &Client{
		http:    http,
		baseURL: baseURL,
		timeout: timeout,
		log:     log,
	}
}

// PostForm submits a form-encoded POST and returns the raw response
// body. Any non-2xx status is a transport failure.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded; charset=utf-8").
		SetFormDataFromValues(form).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("post %s: unexpected status %s", path, res.Status())
	}
	return res.Body(), nil
}

func cloneForm(form url.Values) url.Values {
	out := make(url.Values, len(form))
	for k, v := range form {
		out[k] = append([]string(nil), v...)
	}
	return out
}
