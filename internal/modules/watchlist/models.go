// Package watchlist manages the set of tracked tickers shown on the
// dashboard, backed by watchlist.db.
package watchlist

// Volatility labels an admin can assign to a tracked ticker. The label
// biases the synthesizer's volatility for that name.
const (
	VolatilityLow    = "low"
	VolatilityNormal = "normal"
	VolatilityHigh   = "high"
)

// Entry is one tracked ticker.
type Entry struct {
	Symbol          string `json:"symbol"`
	Name            string `json:"name"`
	Sector          string `json:"sector"`
	VolatilityLabel string `json:"volatilityLabel"`
	Position        int    `json:"position"`
	AddedAt         int64  `json:"addedAt"`
}

// VolatilityScale converts a label to the synthesizer scale factor.
func VolatilityScale(label string) float64 {
	switch label {
	case VolatilityLow:
		return 0.5
	case VolatilityHigh:
		return 2.0
	default:
		return 1.0
	}
}

// ValidVolatilityLabel reports whether label is one of the known labels.
func ValidVolatilityLabel(label string) bool {
	return label == VolatilityLow || label == VolatilityNormal || label == VolatilityHigh
}
