package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/watchboard/internal/cache"
	"github.com/aristath/watchboard/internal/clients/predict"
	"github.com/aristath/watchboard/internal/clients/quotes"
	"github.com/aristath/watchboard/internal/synth"
)

type stubQuotes struct {
	enabled bool
	quote   *quotes.Quote
	err     error
	calls   int
}

func (s *stubQuotes) Enabled() bool { return s.enabled }

func (s *stubQuotes) GetQuote(_ context.Context, _ string) (*quotes.Quote, error) {
	s.calls++
	return s.quote, s.err
}

type stubPredict struct {
	enabled    bool
	prediction *predict.Prediction
	err        error
}

func (s *stubPredict) Enabled() bool { return s.enabled }

func (s *stubPredict) GetPrediction(_ context.Context, _ string) (*predict.Prediction, error) {
	return s.prediction, s.err
}

type stubScaler struct{ scale float64 }

func (s *stubScaler) VolatilityScaleFor(string) float64 { return s.scale }

type stubMode struct{ simulatedOnly bool }

func (s *stubMode) SimulatedOnly() bool { return s.simulatedOnly }

func newTestService(q QuoteProvider, p PredictionProvider, simulatedOnly bool) *Service {
	return NewService(
		synth.NewWithAnchor(time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)),
		q, p,
		&stubScaler{scale: 1.0},
		&stubMode{simulatedOnly: simulatedOnly},
		zerolog.Nop(),
	)
}

func TestGetQuoteSimulatedOnly(t *testing.T) {
	provider := &stubQuotes{enabled: true, quote: &quotes.Quote{Symbol: "AAPL", Price: 999}}
	svc := newTestService(provider, &stubPredict{}, true)

	result := svc.GetQuote(context.Background(), "AAPL")

	assert.Equal(t, SourceSimulated, result.Source)
	assert.Equal(t, 0, provider.calls, "simulated-only mode must not hit the provider")
}

func TestGetQuoteLive(t *testing.T) {
	provider := &stubQuotes{
		enabled: true,
		quote:   &quotes.Quote{Symbol: "AAPL", Price: 231.25, Volume: 48000000, ChangePercent: 1.2},
	}
	svc := newTestService(provider, &stubPredict{}, false)

	result := svc.GetQuote(context.Background(), "AAPL")

	assert.Equal(t, SourceLive, result.Source)
	assert.Equal(t, 231.25, result.Snapshot.Price)
	assert.Equal(t, "48.0M", result.Snapshot.Volume)
	assert.NotEmpty(t, result.Snapshot.MarketCap)
}

func TestGetQuoteProviderFailureFallsBack(t *testing.T) {
	provider := &stubQuotes{enabled: true, err: errors.New("connection refused")}
	svc := newTestService(provider, &stubPredict{}, false)

	result := svc.GetQuote(context.Background(), "AAPL")

	assert.Equal(t, SourceSimulated, result.Source)
	assert.Greater(t, result.Snapshot.Price, 0.0)
}

func TestGetQuoteRateLimitFallsBack(t *testing.T) {
	provider := &stubQuotes{enabled: true, err: quotes.ErrRateLimited}
	svc := newTestService(provider, &stubPredict{}, false)

	result := svc.GetQuote(context.Background(), "AAPL")
	assert.Equal(t, SourceSimulated, result.Source)
}

func TestGetQuoteCached(t *testing.T) {
	provider := &stubQuotes{enabled: true, quote: &quotes.Quote{Symbol: "AAPL", Price: 231.25, Volume: 1}}
	svc := newTestService(provider, &stubPredict{}, false)

	first := svc.GetQuote(context.Background(), "AAPL")
	second := svc.GetQuote(context.Background(), "AAPL")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls, "second read must come from cache")
}

func TestGetSeriesCachedAndDeterministic(t *testing.T) {
	svc := newTestService(&stubQuotes{}, &stubPredict{}, true)

	first := svc.GetSeries("AAPL", synth.Period1M, false)
	second := svc.GetSeries("AAPL", synth.Period1M, false)

	assert.Equal(t, first, second)
	assert.Equal(t, SourceSimulated, first.Source)
	assert.Len(t, first.Points, 30)
}

func TestGetSeriesRelativeUsesSeparateKey(t *testing.T) {
	svc := newTestService(&stubQuotes{}, &stubPredict{}, true)

	plain := svc.GetSeries("AAPL", synth.Period1M, false)
	relative := svc.GetSeries("AAPL", synth.Period1M, true)

	assert.Nil(t, plain.Points[0].RelativeValue)
	require.NotNil(t, relative.Points[0].RelativeValue)
	assert.Equal(t, 0.0, *relative.Points[0].RelativeValue)
}

func TestGetPredictionLive(t *testing.T) {
	provider := &stubPredict{
		enabled: true,
		prediction: &predict.Prediction{
			Symbol:       "NVDA",
			Date:         "2026-03-10",
			ModelVersion: "lstm-v4",
			Points: []predict.PredictionPoint{
				{Day: 1, Price: 132}, {Day: 2, Price: 133},
				{Day: 3, Price: 134}, {Day: 4, Price: 135},
			},
		},
	}
	svc := newTestService(&stubQuotes{}, provider, false)

	result := svc.GetPrediction(context.Background(), "NVDA")

	assert.Equal(t, SourceLive, result.Source)
	assert.Equal(t, "lstm-v4", result.Prediction.ModelVersion)
	assert.Len(t, result.Prediction.Points, 4)
}

func TestGetPredictionFallback(t *testing.T) {
	provider := &stubPredict{enabled: true, err: errors.New("timeout")}
	svc := newTestService(&stubQuotes{}, provider, false)

	result := svc.GetPrediction(context.Background(), "NVDA")

	assert.Equal(t, SourceSimulated, result.Source)
	assert.Equal(t, "synth-v2", result.Prediction.ModelVersion)
}

func TestRefreshGating(t *testing.T) {
	provider := &stubQuotes{enabled: true, quote: &quotes.Quote{Symbol: "AAPL", Price: 1, Volume: 1}}
	svc := newTestService(provider, &stubPredict{}, false)

	svc.GetQuote(context.Background(), "AAPL")
	require.Equal(t, 1, provider.calls)

	// First refresh is allowed and evicts the cached quote
	result := svc.Refresh("AAPL")
	assert.True(t, result.Allowed)

	svc.GetQuote(context.Background(), "AAPL")
	assert.Equal(t, 2, provider.calls, "refresh must evict the cached quote")

	// Second refresh inside the cooldown is denied with the remaining wait
	denied := svc.Refresh("AAPL")
	assert.False(t, denied.Allowed)
	assert.Greater(t, denied.Remaining, 9*time.Minute)
	assert.LessOrEqual(t, denied.Remaining, cache.RefreshCooldown)
	assert.Equal(t, "10m 0s", denied.RetryIn)
}

func TestRefreshGatesArePerSymbol(t *testing.T) {
	svc := newTestService(&stubQuotes{}, &stubPredict{}, true)

	require.True(t, svc.Refresh("AAPL").Allowed)
	assert.False(t, svc.Refresh("AAPL").Allowed)
	assert.True(t, svc.Refresh("MSFT").Allowed, "gates are independent per symbol")
}

func TestInvalidateAll(t *testing.T) {
	svc := newTestService(&stubQuotes{}, &stubPredict{}, true)

	svc.GetSeries("AAPL", synth.Period1M, false)
	svc.GetQuote(context.Background(), "AAPL")
	require.Greater(t, svc.CachedEntryCount(), 0)

	svc.InvalidateAll()
	assert.Equal(t, 0, svc.CachedEntryCount())
}

func TestGetIndicators(t *testing.T) {
	svc := newTestService(&stubQuotes{}, &stubPredict{}, true)

	long := svc.GetIndicators("AAPL", synth.Period1Y)
	assert.NotNil(t, long.SMA)
	assert.NotNil(t, long.EMA)
	assert.NotNil(t, long.RSI)
	assert.Len(t, long.SMA, 52, "indicator slices align with the series")

	short := svc.GetIndicators("AAPL", synth.Period1W)
	assert.Nil(t, short.SMA, "a 7-point series cannot carry a 10-period SMA")
	assert.Nil(t, short.RSI)
}
