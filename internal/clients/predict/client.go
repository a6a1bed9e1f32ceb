// Package predict provides the third-party prediction provider client.
// Like the quotes client it only reports success or failure; fallback to
// synthesized predictions is the market service's job.
package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Prediction is the provider's forward-prediction record.
type Prediction struct {
	Symbol          string            `json:"symbol"`
	Date            string            `json:"date"`
	ModelVersion    string            `json:"modelVersion"`
	ChangePercent   float64           `json:"changePercent"`
	Points          []PredictionPoint `json:"points"`
	VolatilityScore float64           `json:"volatilityScore"`
}

// PredictionPoint is one forward-day point prediction.
type PredictionPoint struct {
	Day   int     `json:"day"`
	Price float64 `json:"price"`
}

// Client for the prediction service.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new prediction provider client.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("client", "predict").Logger(),
	}
}

// Enabled reports whether a provider URL is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// GetPrediction fetches the forward prediction for symbol.
func (c *Client) GetPrediction(ctx context.Context, symbol string) (*Prediction, error) {
	reqURL := fmt.Sprintf("%s/predictions/%s", c.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build prediction request: %w", err)
	}

	c.log.Debug().Str("symbol", symbol).Msg("Fetching live prediction")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prediction provider returned status %d", resp.StatusCode)
	}

	var prediction Prediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("failed to parse prediction response: %w", err)
	}

	// A prediction covers four to five forward days; anything else is a
	// malformed payload and gets discarded like any other provider failure.
	if len(prediction.Points) < 4 || len(prediction.Points) > 5 {
		return nil, fmt.Errorf("prediction payload has %d points, expected 4-5", len(prediction.Points))
	}

	if prediction.Symbol == "" {
		prediction.Symbol = symbol
	}

	return &prediction, nil
}
