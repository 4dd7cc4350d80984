package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxUpstreamBody = 1 << 20

var ErrBodyTooLarge = errors.New("upstream body too large")

// Client calls the backend API on behalf of the thin gateway routes.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxBody    int64
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		maxBody: maxUpstreamBody,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type Request struct {
	Method string
	Path   string
	Body   []byte
	// From supplies the cookies and Authorization header to forward.
	From *http.Request
}

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, c.baseURL+r.Path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.From != nil {
		for _, ck := range r.From.Cookies() {
			req.AddCookie(ck)
		}
		if auth := r.From.Header.Get("Authorization"); auth != "" {
			req.Header.Set("Authorization", auth)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(data)) > c.maxBody {
		return nil, fmt.Errorf("%s %s: %w", r.Method, r.Path, ErrBodyTooLarge)
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
