package market

import (
	"github.com/markcheno/go-talib"

	"github.com/aristath/watchboard/internal/synth"
)

const (
	smaPeriod = 10
	emaPeriod = 10
	rsiPeriod = 14
)

// GetIndicators computes chart overlay indicators over the served series
// for symbol. Indicators whose lookback exceeds the series length are
// omitted rather than padded.
func (s *Service) GetIndicators(symbol string, period synth.Period) IndicatorsResult {
	series := s.GetSeries(symbol, period, false)
	values := synth.Values(series.Points)

	result := IndicatorsResult{Symbol: symbol, Period: period}

	if len(values) > smaPeriod {
		result.SMA = talib.Sma(values, smaPeriod)
	}
	if len(values) > emaPeriod {
		result.EMA = talib.Ema(values, emaPeriod)
	}
	if len(values) > rsiPeriod {
		result.RSI = talib.Rsi(values, rsiPeriod)
	}

	return result
}
