package watchlist

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// defaultEntries seeds a fresh database so the dashboard has content on
// first run.
var defaultEntries = []Entry{
	{Symbol: "AAPL", Name: "Apple Inc.", Sector: "Technology"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Sector: "Technology"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Sector: "Communication Services"},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Sector: "Consumer Discretionary"},
	{Symbol: "META", Name: "Meta Platforms Inc.", Sector: "Communication Services"},
	{Symbol: "TSLA", Name: "Tesla Inc.", Sector: "Consumer Discretionary", VolatilityLabel: VolatilityHigh},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Sector: "Technology", VolatilityLabel: VolatilityHigh},
	{Symbol: "KO", Name: "The Coca-Cola Company", Sector: "Consumer Staples", VolatilityLabel: VolatilityLow},
}

// Service provides watchlist operations for handlers and background jobs.
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a new watchlist service.
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "watchlist").Logger(),
	}
}

// SeedDefaults populates an empty watchlist with the default symbols.
// A non-empty watchlist is left untouched.
func (s *Service) SeedDefaults() error {
	count, err := s.repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, entry := range defaultEntries {
		if err := s.repo.Add(entry); err != nil {
			return fmt.Errorf("failed to seed watchlist: %w", err)
		}
	}

	s.log.Info().Int("count", len(defaultEntries)).Msg("Seeded default watchlist")
	return nil
}

// List returns all tracked tickers.
func (s *Service) List() ([]Entry, error) {
	return s.repo.List()
}

// Get returns one tracked ticker, nil when untracked.
func (s *Service) Get(symbol string) (*Entry, error) {
	return s.repo.Get(normalizeSymbol(symbol))
}

// Add tracks a new ticker.
func (s *Service) Add(symbol, name, sector string) error {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	return s.repo.Add(Entry{Symbol: symbol, Name: name, Sector: sector})
}

// Remove stops tracking a ticker.
func (s *Service) Remove(symbol string) error {
	return s.repo.Remove(normalizeSymbol(symbol))
}

// SetVolatilityLabel updates the admin-assigned volatility label.
func (s *Service) SetVolatilityLabel(symbol, label string) error {
	return s.repo.SetVolatilityLabel(normalizeSymbol(symbol), label)
}

// Reorder rewrites the display order.
func (s *Service) Reorder(symbols []string) error {
	normalized := make([]string, len(symbols))
	for i, sym := range symbols {
		normalized[i] = normalizeSymbol(sym)
	}
	return s.repo.Reorder(normalized)
}

// VolatilityScaleFor returns the synthesizer volatility scale for a symbol:
// the admin-assigned label when the symbol is tracked, neutral otherwise.
func (s *Service) VolatilityScaleFor(symbol string) float64 {
	entry, err := s.repo.Get(normalizeSymbol(symbol))
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to read volatility label")
		return 1.0
	}
	if entry == nil {
		return 1.0
	}
	return VolatilityScale(entry.VolatilityLabel)
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
