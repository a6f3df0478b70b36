package fetch

import (
	"bytes"
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// Client is the static fetch strategy: one GET per page, no retries. The
// caller decides whether a failed fetch is fatal for its adapter.
type Client struct {
	http *resty.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: resty.New().SetTimeout(timeout),
	}
}

func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}

	if !res.IsSuccess() {
		return nil, &Error{URL: url, StatusCode: res.StatusCode()}
	}

	return res.Body(), nil
}

// Document fetches a server-rendered page and parses it for traversal.
func (c *Client) Document(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}

	return doc, nil
}
