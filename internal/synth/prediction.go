package synth

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// PredictionPoint is a single forward-day price prediction.
type PredictionPoint struct {
	Day   int     `json:"day"`
	Price float64 `json:"price"`
}

// Prediction mirrors the shape the prediction provider returns, so the
// dashboard's prediction panel renders identically whether the data is live
// or synthesized.
type Prediction struct {
	Symbol          string            `json:"symbol"`
	Date            string            `json:"date"`
	ModelVersion    string            `json:"modelVersion"`
	ChangePercent   float64           `json:"changePercent"`
	Points          []PredictionPoint `json:"points"`
	VolatilityScore float64           `json:"volatilityScore"`
}

// predictionDays is how many forward trading days a prediction covers.
const predictionDays = 5

// Prediction produces a reproducible five-day forward prediction for
// ticker. The walk continues from the synthesized quote price with the
// one-month volatility profile; the volatility score is the standard
// deviation of the step returns, scaled to a 0-100 display range.
func (s *Synthesizer) Prediction(ticker string) Prediction {
	seed := tickerSeed(ticker)
	seedFactor := float64(seed) / 100

	spec := periodSpecs[Period1M]
	volatility := spec.volatility * volatilityMultiplier(ticker)
	trend := trendBias(ticker, Period1M, seedFactor)

	price := basePrice(ticker, seed)
	start := price

	points := make([]PredictionPoint, 0, predictionDays)
	returns := make([]float64, 0, predictionDays)

	for day := 1; day <= predictionDays; day++ {
		step := math.Sin(float64(day)*2.3+seedFactor*5)*volatility +
			trend*volatility*0.8
		price *= 1 + step

		points = append(points, PredictionPoint{Day: day, Price: round2(price)})
		returns = append(returns, step)
	}

	score := stat.StdDev(returns, nil) * 1000
	if score > 100 {
		score = 100
	}

	return Prediction{
		Symbol:          ticker,
		Date:            s.anchor.Format("2006-01-02"),
		ModelVersion:    "synth-v2",
		ChangePercent:   round2((price/start - 1) * 100),
		Points:          points,
		VolatilityScore: round2(score),
	}
}
