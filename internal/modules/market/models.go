// Package market serves the dashboard's price data: series, quotes,
// predictions and chart indicators. Results are cache-first; live provider
// failures are masked with synthesized data so rendering never sees an
// upstream error.
package market

import (
	"time"

	"github.com/aristath/watchboard/internal/synth"
)

// Source tags where a served payload came from, so the UI can show the
// simulated-data notice.
type Source string

const (
	SourceLive      Source = "live"
	SourceSimulated Source = "simulated"
)

// SeriesResult is a served price series.
type SeriesResult struct {
	Symbol string              `json:"symbol"`
	Period synth.Period        `json:"period"`
	Source Source              `json:"source"`
	Points []synth.SeriesPoint `json:"points"`
}

// QuoteResult is a served quote snapshot.
type QuoteResult struct {
	Source   Source              `json:"source"`
	Snapshot synth.QuoteSnapshot `json:"snapshot"`
}

// PredictionResult is a served forward prediction.
type PredictionResult struct {
	Source     Source           `json:"source"`
	Prediction synth.Prediction `json:"prediction"`
}

// IndicatorsResult carries chart overlay indicators for a series. Slices
// are aligned to the series points; an indicator that needs more points
// than the series has is omitted (nil).
type IndicatorsResult struct {
	Symbol string       `json:"symbol"`
	Period synth.Period `json:"period"`
	SMA    []float64    `json:"sma,omitempty"`
	EMA    []float64    `json:"ema,omitempty"`
	RSI    []float64    `json:"rsi,omitempty"`
}

// RefreshResult reports the outcome of a forced refresh attempt. A denial
// is a normal outcome carrying the remaining cooldown for display, not an
// error.
type RefreshResult struct {
	Allowed   bool          `json:"allowed"`
	Remaining time.Duration `json:"-"`
	RetryIn   string        `json:"retryIn,omitempty"`
}
