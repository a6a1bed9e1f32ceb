package synth

import (
	"math"
	"time"
)

// SeriesPoint is a single labeled point of a synthesized price series.
// RelativeValue, when present, is the percent change from the series' first
// point; every point of a series shares the same base.
type SeriesPoint struct {
	Label         string   `json:"label"`
	Value         float64  `json:"value"`
	RelativeValue *float64 `json:"relativeValue,omitempty"`
}

// Series produces a reproducible price series for ticker over period. When
// relative is true every point carries its percent change from point 0.
func (s *Synthesizer) Series(ticker string, period Period, relative bool) []SeriesPoint {
	return s.SeriesScaled(ticker, period, relative, 1.0)
}

// SeriesScaled is Series with an extra volatility scale on top of the
// built-in per-ticker multipliers. The watchlist's admin-set volatility
// label feeds through here; scale 1.0 is the neutral value.
func (s *Synthesizer) SeriesScaled(ticker string, period Period, relative bool, scale float64) []SeriesPoint {
	spec, ok := periodSpecs[period]
	if !ok {
		return nil
	}
	if scale <= 0 {
		scale = 1.0
	}

	seed := tickerSeed(ticker)
	seedFactor := float64(seed) / 100

	volatility := spec.volatility * volatilityMultiplier(ticker) * scale
	trend := trendBias(ticker, period, seedFactor)

	price := basePrice(ticker, seed)
	points := make([]SeriesPoint, 0, spec.points)

	for i := 0; i < spec.points; i++ {
		if i > 0 {
			// Three closed-form factors of (i, seedFactor, volatility):
			// pseudo-noise, drift, and a slower cyclic pattern.
			randomFactor := math.Sin(float64(i)*1.7+seedFactor*3) * volatility
			trendFactor := trend * volatility * 0.6
			patternFactor := math.Cos(float64(i)*0.35+seedFactor) * volatility * 0.4

			price *= 1 + randomFactor + trendFactor + patternFactor
		}

		points = append(points, SeriesPoint{
			Label: s.pointLabel(spec, i),
			Value: round2(price),
		})
	}

	if relative {
		attachRelativeValues(points)
	}

	return points
}

// pointLabel renders the timestamp label for point i. Points walk backward
// from the anchor so the last point is "now". Labels are cosmetic; values
// never depend on the anchor.
func (s *Synthesizer) pointLabel(spec periodSpec, i int) string {
	t := s.anchor.Add(-time.Duration(spec.points-1-i) * spec.step)
	return t.Format(spec.label)
}

// attachRelativeValues computes percent change from the first point for the
// whole series. Point 0 is exactly 0.
func attachRelativeValues(points []SeriesPoint) {
	if len(points) == 0 {
		return
	}

	base := points[0].Value
	if base == 0 {
		return
	}

	for i := range points {
		rv := (points[i].Value/base - 1) * 100
		if i == 0 {
			rv = 0
		}
		points[i].RelativeValue = &rv
	}
}

// Values extracts the raw values of a series for indicator calculations.
func Values(points []SeriesPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}
