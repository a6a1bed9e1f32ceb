package synth

import "math/rand"

// RandomWalkSeries is the degraded-mode generator: a plain unseeded random
// walk with none of the deterministic machinery. It exists only for the
// case where the primary path is unreachable; callers that need
// reproducible output must use Series instead.
func (s *Synthesizer) RandomWalkSeries(ticker string, period Period) []SeriesPoint {
	spec, ok := periodSpecs[period]
	if !ok {
		return nil
	}

	price := basePrice(ticker, tickerSeed(ticker))
	points := make([]SeriesPoint, 0, spec.points)

	for i := 0; i < spec.points; i++ {
		if i > 0 {
			price *= 1 + (rand.Float64()-0.5)*spec.volatility*2
		}
		points = append(points, SeriesPoint{
			Label: s.pointLabel(spec, i),
			Value: round2(price),
		})
	}

	return points
}
