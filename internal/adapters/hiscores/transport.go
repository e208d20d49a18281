package hiscores

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bosscape/lfg-bot/internal/domain"
)

const DefaultBaseURL = "https://secure.runescape.com/m=hiscore_oldschool"

type Client struct {
	http    *http.Client
	baseURL string
	// tope para esperar Retry-After en un 429
	maxRetryWait time.Duration
}

func New(opts ...Option) *Client {
	c := &Client{
		http:         &http.Client{Timeout: 10 * time.Second},
		baseURL:      DefaultBaseURL,
		maxRetryWait: 5 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// get: baja el body en texto plano, maneja 404 y un reintento con Retry-After en 429.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	return c.do(ctx, path, q, true)
}

func (c *Client) do(ctx context.Context, path string, q url.Values, retry bool) ([]byte, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("hiscores request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: hiscores http: %v", domain.ErrRemoteUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests && retry {
		if sec, _ := strconv.Atoi(res.Header.Get("Retry-After")); sec > 0 {
			wait := time.Duration(sec) * time.Second
			if wait > c.maxRetryWait {
				wait = c.maxRetryWait
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return c.do(ctx, path, q, false)
		}
	}
	if res.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, &APIError{Status: res.StatusCode, Body: string(b)}
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrRemoteUnavailable, err)
	}
	return b, nil
}
