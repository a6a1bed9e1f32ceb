package synth

import (
	"fmt"
	"math"
)

// QuoteSnapshot is a single reproducible quote for a ticker. Volume and
// market cap are pre-formatted display strings; the synthesizer does not
// cache snapshots, callers do.
type QuoteSnapshot struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changePercent"`
	Volume        string  `json:"volume"`
	MarketCap     string  `json:"marketCap"`
}

// Quote produces a reproducible quote snapshot for ticker. The price uses
// the same override table as the series generator, with a small seeded
// wiggle so overridden names read as live numbers rather than round
// literals.
func (s *Synthesizer) Quote(ticker string) QuoteSnapshot {
	seed := tickerSeed(ticker)
	seedFactor := float64(seed) / 100

	price := basePrice(ticker, seed) * (1 + math.Sin(seedFactor*2)*0.01)

	// Raw volume lands between a few hundred thousand and low billions so
	// every formatting band is reachable.
	volume := float64(seed%977+23) * float64(seed%53+7) * 1e4

	shares := float64(seed%900+100) * 1e7
	marketCap := price * shares

	return QuoteSnapshot{
		Symbol:        ticker,
		Price:         round2(price),
		ChangePercent: round2(math.Sin(float64(seed)/5) * 5),
		Volume:        FormatVolume(volume),
		MarketCap:     FormatMarketCap(marketCap),
	}
}

// FormatVolume renders a share count in three magnitude bands.
func FormatVolume(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	default:
		return fmt.Sprintf("%.0fK", v/1e3)
	}
}

// FormatMarketCap renders a capitalization in three magnitude bands.
func FormatMarketCap(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	default:
		return fmt.Sprintf("$%.0fM", v/1e6)
	}
}
