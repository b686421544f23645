// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package grobid calls a GROBID service to recover the bibliographic header
// of a PDF as a TEI document.
package grobid

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/journal-import/internal/httputil"
	"github.com/pdiddy/journal-import/internal/tei"
)

const (
	// DefaultURL is where a locally started GROBID container listens.
	DefaultURL = "http://localhost:8070"

	// HeaderPath is the processing endpoint appended to the base URL.
	HeaderPath = "/api/processHeaderDocument"

	// AlivePath reports whether the service is up.
	AlivePath = "/api/isalive"

	// InputField is the multipart field carrying the PDF.
	InputField = "input"

	defaultUserAgent = "journal-import/0.1"
)

// ExtractionError reports a failed extraction call or an unusable response.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return "extraction failed: " + e.Reason
	}
	return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Client posts PDFs to GROBID. Calls are synchronous and never retried.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit spaces calls to at most perSecond requests per second.
// Zero or negative leaves calls unthrottled.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a client for the GROBID service at baseURL. An empty
// baseURL selects DefaultURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProcessHeader sends pdf to the header processing endpoint and parses the
// TEI response. filename is only used as the multipart file name.
func (c *Client) ProcessHeader(ctx context.Context, pdf []byte, filename string) (*tei.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ExtractionError{Reason: "waiting for rate limiter", Err: err}
	}

	req, err := httputil.NewMultipartRequest(ctx, c.baseURL+HeaderPath, InputField, filename, pdf)
	if err != nil {
		return nil, &ExtractionError{Reason: "building request", Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ExtractionError{Reason: "request", Err: err}
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp); err != nil {
		return nil, &ExtractionError{Reason: "service response", Err: err}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ExtractionError{Reason: "reading response", Err: err}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &ExtractionError{Reason: fmt.Sprintf("empty response (HTTP %d)", resp.StatusCode)}
	}

	doc, err := tei.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &ExtractionError{Reason: "parsing TEI", Err: err}
	}
	return doc, nil
}

// IsAlive asks the service whether it is ready to process documents.
func (c *Client) IsAlive(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+AlivePath, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("contacting %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp); err != nil {
		return err
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64))
	if strings.TrimSpace(string(body)) != "true" {
		return fmt.Errorf("%s is not ready", c.baseURL)
	}
	return nil
}
