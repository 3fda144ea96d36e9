// Package api is the typed HTTP client for the pantau backend. Every
// call takes a context and returns decoded structs; callers never see
// raw JSON or rendered strings.
package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	http *resty.Client
}

// New builds a client for the backend at baseURL, e.g.
// http://192.168.1.20:5000.
func New(baseURL string) *Client {
	r := resty.New()
	r.SetBaseURL(strings.TrimRight(baseURL, "/"))
	r.SetTimeout(10 * time.Second)
	r.SetHeader("Accept", "application/json")
	return &Client{http: r}
}

// BaseURL returns the configured backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// RealtimeURL derives the websocket endpoint from the backend root.
func (c *Client) RealtimeURL() string {
	u := c.http.BaseURL
	if strings.HasPrefix(u, "https://") {
		return "wss://" + strings.TrimPrefix(u, "https://") + "/socket"
	}
	return "ws://" + strings.TrimPrefix(u, "http://") + "/socket"
}

// AbsoluteURL resolves a backend-relative path (capture file URLs come
// back relative) against the base URL.
func (c *Client) AbsoluteURL(path string) string {
	if path == "" || strings.Contains(path, "://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.http.BaseURL + path
}

type apiError struct {
	Message string `json:"error"`
}

type okResult struct {
	OK bool `json:"ok"`
}

func (c *Client) req() *resty.Request {
	return c.http.R().SetError(&apiError{})
}

// statusErr turns a non-2xx response into an error, preferring the
// backend's own error field over the bare status code.
func statusErr(op string, resp *resty.Response) error {
	if e, ok := resp.Error().(*apiError); ok && e.Message != "" {
		return fmt.Errorf("%s: %s (status %d)", op, e.Message, resp.StatusCode())
	}
	return fmt.Errorf("%s: status %d", op, resp.StatusCode())
}

func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsError() {
		return statusErr(op, resp)
	}
	return nil
}

func exportURL(base, path string, q url.Values) string {
	q.Set("format", "xlsx")
	return base + path + "?" + q.Encode()
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
