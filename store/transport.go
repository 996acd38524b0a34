package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ipahub/ipahub/store/cookies"
)

const (
	purchasePath = "/WebObjects/MZFinance.woa/wa/buyProduct"
	downloadPath = "/WebObjects/MZFinance.woa/wa/volumeStoreDownloadProduct"

	contentTypePlist = "application/x-apple-plist"

	// maxResponseBody bounds how much of a response we are willing to read.
	maxResponseBody = 8 << 20
)

// Client talks to the sharded store hosts. It is safe for concurrent use
// across different accounts; calls for the same account must be serialized
// by the caller (see package doc).
type Client struct {
	httpClient *http.Client
	// baseURL overrides per-pod host resolution. Used by tests.
	baseURL string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL directs all requests to a fixed base URL instead of the
// account's pod host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rawResponse carries the full response including every repeated Set-Cookie
// header, so the caller can fold all of them into the jar.
type rawResponse struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

func (r *rawResponse) setCookieHeaders() []string {
	return r.Header.Values("Set-Cookie")
}

// hostForPod resolves the store host serving a given pod. An empty pod falls
// back to the unsharded host.
func hostForPod(pod string) string {
	if pod == "" {
		return "buy.itunes.apple.com"
	}
	return fmt.Sprintf("p%s-buy.itunes.apple.com", pod)
}

// send performs one authenticated round trip against the account's resolved
// host. Network faults surface as a TransportError and are never retried at
// this layer; retry policy lives with the caller because only specific
// store-level outcomes are retryable.
func (c *Client) send(ctx context.Context, account Account, jar cookies.Jar, path string, body []byte) (*rawResponse, error) {
	host := hostForPod(account.Pod)
	base := c.baseURL
	if base == "" {
		base = "https://" + host
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", contentTypePlist)
	req.Header.Set("iCloud-DSID", account.DSID)
	req.Header.Set("X-Dsid", account.DSID)
	req.Header.Set("X-Apple-Store-Front", account.Storefront+"-1")
	req.Header.Set("X-Token", account.PasswordToken)
	if cookieHeader := jar.Header(); cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Host: host, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &TransportError{Host: host, Err: err}
	}

	return &rawResponse{
		StatusCode: resp.StatusCode,
		Body:       respBody,
		Header:     resp.Header,
	}, nil
}
