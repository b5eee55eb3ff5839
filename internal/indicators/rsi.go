package indicators

import "math"

// RSI returns the period-length Relative Strength Index of closes using
// Wilder's smoothing, aligned to the input. Indices before the first full
// window are NaN. If the average loss is zero the value saturates at 100,
// if the average gain is zero it saturates at 0.
func RSI(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = value(avgGain, avgLoss)

	n := float64(period)
	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*(n-1) + gain) / n
		avgLoss = (avgLoss*(n-1) + loss) / n
		out[i] = value(avgGain, avgLoss)
	}
	return out
}

// Last returns the most recent RSI value for closes, or NaN when there is
// not enough history for a single full window.
func Last(closes []float64, period int) float64 {
	series := RSI(closes, period)
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}

func value(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	if avgGain == 0 {
		return 0
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
