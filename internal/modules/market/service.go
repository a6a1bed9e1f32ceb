package market

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aristath/watchboard/internal/cache"
	"github.com/aristath/watchboard/internal/clients/predict"
	"github.com/aristath/watchboard/internal/clients/quotes"
	"github.com/aristath/watchboard/internal/synth"
)

// QuoteProvider is the live quote source. Satisfied by *quotes.Client.
type QuoteProvider interface {
	Enabled() bool
	GetQuote(ctx context.Context, symbol string) (*quotes.Quote, error)
}

// PredictionProvider is the live prediction source. Satisfied by *predict.Client.
type PredictionProvider interface {
	Enabled() bool
	GetPrediction(ctx context.Context, symbol string) (*predict.Prediction, error)
}

// VolatilityScaler maps a symbol to its admin-assigned volatility scale.
// Satisfied by *watchlist.Service.
type VolatilityScaler interface {
	VolatilityScaleFor(symbol string) float64
}

// ModeSource reports whether live providers should be bypassed entirely.
// Satisfied by *settings.Service.
type ModeSource interface {
	SimulatedOnly() bool
}

// Service composes the cache, the refresh governor, the provider clients
// and the synthesizer. Each payload kind gets its own typed cache store so
// callers never see an untyped payload.
type Service struct {
	synth      *synth.Synthesizer
	quotes     QuoteProvider
	predict    PredictionProvider
	volatility VolatilityScaler
	mode       ModeSource

	seriesCache     *cache.Store[SeriesResult]
	quoteCache      *cache.Store[QuoteResult]
	predictionCache *cache.Store[PredictionResult]
	governor        *cache.Governor

	log zerolog.Logger
}

// NewService creates a new market service with empty caches.
func NewService(
	synthesizer *synth.Synthesizer,
	quoteProvider QuoteProvider,
	predictionProvider PredictionProvider,
	volatility VolatilityScaler,
	mode ModeSource,
	log zerolog.Logger,
) *Service {
	return &Service{
		synth:           synthesizer,
		quotes:          quoteProvider,
		predict:         predictionProvider,
		volatility:      volatility,
		mode:            mode,
		seriesCache:     cache.New[SeriesResult](),
		quoteCache:      cache.New[QuoteResult](),
		predictionCache: cache.New[PredictionResult](),
		governor:        cache.NewGovernor(),
		log:             log.With().Str("service", "market").Logger(),
	}
}

// seriesKey includes the relative flag so the two projections of a series
// never overwrite each other.
func seriesKey(symbol string, period synth.Period, relative bool) cache.Key {
	suffix := string(period)
	if relative {
		suffix += "_rel"
	}
	return cache.NewKey("series", symbol, suffix)
}

// GetSeries returns the price series for symbol over period, cache-first.
// Series data has no live provider; it is always synthesized, biased by the
// watchlist's volatility label.
func (s *Service) GetSeries(symbol string, period synth.Period, relative bool) SeriesResult {
	key := seriesKey(symbol, period, relative)
	if cached, ok := s.seriesCache.Get(key); ok {
		return cached
	}

	scale := s.volatility.VolatilityScaleFor(symbol)
	result := SeriesResult{
		Symbol: symbol,
		Period: period,
		Source: SourceSimulated,
		Points: s.synth.SeriesScaled(symbol, period, relative, scale),
	}

	s.seriesCache.Put(key, result)
	return result
}

// GetQuote returns the current quote for symbol: cached, then live
// provider, then synthesizer. Provider failures are logged and masked.
func (s *Service) GetQuote(ctx context.Context, symbol string) QuoteResult {
	key := cache.NewKey("quote", symbol, "")
	if cached, ok := s.quoteCache.Get(key); ok {
		return cached
	}

	result := s.fetchQuote(ctx, symbol)
	s.quoteCache.Put(key, result)
	return result
}

func (s *Service) fetchQuote(ctx context.Context, symbol string) QuoteResult {
	if s.mode.SimulatedOnly() || s.quotes == nil || !s.quotes.Enabled() {
		return QuoteResult{Source: SourceSimulated, Snapshot: s.synth.Quote(symbol)}
	}

	live, err := s.quotes.GetQuote(ctx, symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Live quote failed, serving simulated data")
		return QuoteResult{Source: SourceSimulated, Snapshot: s.synth.Quote(symbol)}
	}

	// The provider has no market cap figure; reuse the synthesized estimate
	// so the card renders fully either way.
	simulated := s.synth.Quote(symbol)

	return QuoteResult{
		Source: SourceLive,
		Snapshot: synth.QuoteSnapshot{
			Symbol:        live.Symbol,
			Price:         live.Price,
			ChangePercent: live.ChangePercent,
			Volume:        synth.FormatVolume(float64(live.Volume)),
			MarketCap:     simulated.MarketCap,
		},
	}
}

// GetPrediction returns the forward prediction for symbol: cached, then
// live provider, then synthesizer.
func (s *Service) GetPrediction(ctx context.Context, symbol string) PredictionResult {
	key := cache.NewKey("prediction", symbol, "")
	if cached, ok := s.predictionCache.Get(key); ok {
		return cached
	}

	result := s.fetchPrediction(ctx, symbol)
	s.predictionCache.Put(key, result)
	return result
}

func (s *Service) fetchPrediction(ctx context.Context, symbol string) PredictionResult {
	if s.mode.SimulatedOnly() || s.predict == nil || !s.predict.Enabled() {
		return PredictionResult{Source: SourceSimulated, Prediction: s.synth.Prediction(symbol)}
	}

	live, err := s.predict.GetPrediction(ctx, symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Live prediction failed, serving simulated data")
		return PredictionResult{Source: SourceSimulated, Prediction: s.synth.Prediction(symbol)}
	}

	points := make([]synth.PredictionPoint, len(live.Points))
	for i, p := range live.Points {
		points[i] = synth.PredictionPoint{Day: p.Day, Price: p.Price}
	}

	return PredictionResult{
		Source: SourceLive,
		Prediction: synth.Prediction{
			Symbol:          live.Symbol,
			Date:            live.Date,
			ModelVersion:    live.ModelVersion,
			ChangePercent:   live.ChangePercent,
			Points:          points,
			VolatilityScore: live.VolatilityScore,
		},
	}
}

// Refresh forces a cache invalidation for every payload of symbol, gated by
// the governor. The governor check and mark happen here - the service owns
// the refresh operation - so handlers cannot bypass the cooldown.
func (s *Service) Refresh(symbol string) RefreshResult {
	gate := cache.NewKey("refresh", symbol, "")

	if !s.governor.CanRefresh(gate) {
		remaining := s.governor.RemainingCooldown(gate)
		return RefreshResult{
			Allowed:   false,
			Remaining: remaining,
			RetryIn:   cache.FormatCooldown(remaining),
		}
	}

	for _, period := range synth.Periods() {
		s.seriesCache.Evict(seriesKey(symbol, period, false))
		s.seriesCache.Evict(seriesKey(symbol, period, true))
	}
	s.quoteCache.Evict(cache.NewKey("quote", symbol, ""))
	s.predictionCache.Evict(cache.NewKey("prediction", symbol, ""))

	s.governor.MarkRefreshed(gate)
	s.log.Info().Str("symbol", symbol).Msg("Forced refresh")

	return RefreshResult{Allowed: true}
}

// InvalidateAll clears every cached payload. Used when an admin toggles the
// simulated-only mode so stale live data does not linger.
func (s *Service) InvalidateAll() {
	s.seriesCache.EvictAll()
	s.quoteCache.EvictAll()
	s.predictionCache.EvictAll()
}

// WarmQuote primes the quote cache for symbol if it is not already fresh.
// Called by the scheduler's cache-warming job.
func (s *Service) WarmQuote(ctx context.Context, symbol string) QuoteResult {
	return s.GetQuote(ctx, symbol)
}

// CachedEntryCount reports how many entries the payload caches hold, for
// the admin status endpoint.
func (s *Service) CachedEntryCount() int {
	return s.seriesCache.Len() + s.quoteCache.Len() + s.predictionCache.Len()
}
