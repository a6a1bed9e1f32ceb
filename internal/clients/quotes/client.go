// Package quotes provides the third-party quote provider client.
// Any failure here - transport error, non-2xx status, rate limit, malformed
// body - surfaces as a plain error; the market service masks it with
// synthesized data, so nothing in this package retries or falls back itself.
package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrRateLimited indicates the provider's throttle message rather than a
// real quote payload.
var ErrRateLimited = errors.New("quote provider rate limited")

// Quote is the provider's quote record, normalized to native types.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Price         float64 `json:"price"`
	Volume        int64   `json:"volume"`
	PreviousClose float64 `json:"previousClose"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// KeySource supplies a runtime-stored API key. A non-empty stored key takes
// precedence over the environment-configured one. Satisfied by
// *settings.Service.
type KeySource interface {
	QuoteAPIKey() string
}

// Client for an Alpha-Vantage-style quote endpoint.
type Client struct {
	baseURL string
	envKey  string
	keys    KeySource
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new quote provider client. apiKey is the
// environment-configured fallback key.
func NewClient(baseURL, apiKey string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		envKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "quotes").Logger(),
	}
}

// UseKeySource attaches a runtime key source consulted on every request.
func (c *Client) UseKeySource(keys KeySource) {
	c.keys = keys
}

// currentKey resolves the API key for a request: stored setting first,
// environment fallback second.
func (c *Client) currentKey() string {
	if c.keys != nil {
		if key := c.keys.QuoteAPIKey(); key != "" {
			return key
		}
	}
	return c.envKey
}

// Enabled reports whether the client is configured for live quotes.
func (c *Client) Enabled() bool {
	return c.baseURL != "" && c.currentKey() != ""
}

// globalQuoteResponse is the provider's wire format: a "Global Quote" object
// with numbered string fields, or a "Note"/"Information" message when
// throttled.
type globalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
	Note        string            `json:"Note"`
	Information string            `json:"Information"`
}

// GetQuote fetches the current quote for symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	reqURL := fmt.Sprintf("%s?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		c.baseURL, url.QueryEscape(symbol), url.QueryEscape(c.currentKey()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}

	c.log.Debug().Str("symbol", symbol).Msg("Fetching live quote")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote provider returned status %d", resp.StatusCode)
	}

	var payload globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse quote response: %w", err)
	}

	if payload.Note != "" || payload.Information != "" {
		return nil, ErrRateLimited
	}

	if len(payload.GlobalQuote) == 0 {
		return nil, fmt.Errorf("quote provider returned no data for %s", symbol)
	}

	return parseGlobalQuote(payload.GlobalQuote)
}

// parseGlobalQuote converts the numbered string fields into a Quote.
func parseGlobalQuote(fields map[string]string) (*Quote, error) {
	q := &Quote{Symbol: fields["01. symbol"]}
	if q.Symbol == "" {
		return nil, fmt.Errorf("quote payload missing symbol")
	}

	var err error
	if q.Open, err = parseFloat(fields, "02. open"); err != nil {
		return nil, err
	}
	if q.High, err = parseFloat(fields, "03. high"); err != nil {
		return nil, err
	}
	if q.Low, err = parseFloat(fields, "04. low"); err != nil {
		return nil, err
	}
	if q.Price, err = parseFloat(fields, "05. price"); err != nil {
		return nil, err
	}
	if q.PreviousClose, err = parseFloat(fields, "08. previous close"); err != nil {
		return nil, err
	}
	if q.Change, err = parseFloat(fields, "09. change"); err != nil {
		return nil, err
	}

	volume, err := strconv.ParseInt(fields["06. volume"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid volume %q: %w", fields["06. volume"], err)
	}
	q.Volume = volume

	// Change percent arrives with a trailing percent sign
	pctStr := strings.TrimSuffix(fields["10. change percent"], "%")
	pct, err := strconv.ParseFloat(pctStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid change percent %q: %w", fields["10. change percent"], err)
	}
	q.ChangePercent = pct

	return q, nil
}

func parseFloat(fields map[string]string, key string) (float64, error) {
	v, err := strconv.ParseFloat(fields[key], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, fields[key], err)
	}
	return v, nil
}
