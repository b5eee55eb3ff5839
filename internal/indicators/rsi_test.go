package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSI_WarmupIsNaN(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104}
	out := RSI(closes, 14)

	require.Len(t, out, len(closes))
	for i, v := range out {
		assert.True(t, math.IsNaN(v), "index %d should be NaN with insufficient history", i)
	}
}

func TestRSI_AllGainsSaturatesAt100(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	out := RSI(closes, 14)
	assert.Equal(t, 100.0, out[len(out)-1])
}

func TestRSI_AllLossesSaturatesAt0(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}

	out := RSI(closes, 14)
	assert.Equal(t, 0.0, out[len(out)-1])
}

func TestRSI_WilderFixture(t *testing.T) {
	// 15 bars, period 14: ten +1 changes then four -1 changes.
	// avgGain = 10/14, avgLoss = 4/14, RS = 2.5, RSI = 100 - 100/3.5.
	closes := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109, 110, 109, 108, 107, 106}
	out := RSI(closes, 14)

	require.Len(t, out, 15)
	assert.InDelta(t, 100-100/3.5, out[14], 1e-6)

	// One more +1 bar exercises the smoothing:
	// avgGain = (10/14*13 + 1)/14 = 36/49, avgLoss = (4/14*13)/14 = 13/49,
	// RSI = 100 - 100*13/49.
	closes = append(closes, 107)
	out = RSI(closes, 14)
	assert.InDelta(t, 100-100*13.0/49.0, out[15], 1e-6)
}

func TestRSI_Bounded(t *testing.T) {
	closes := []float64{
		44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42,
		45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.00,
		46.03, 46.41, 46.22, 45.64, 46.21, 46.25, 45.71, 46.45,
	}
	out := RSI(closes, 14)

	for i := 14; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i], 0.0)
		assert.LessOrEqual(t, out[i], 100.0)
	}
}

func TestRSI_Deterministic(t *testing.T) {
	closes := []float64{
		1.1012, 1.1034, 1.1021, 1.0998, 1.1005, 1.1047, 1.1052, 1.1039,
		1.1060, 1.1071, 1.1055, 1.1048, 1.1062, 1.1080, 1.1075, 1.1091,
	}
	a := RSI(closes, 14)
	b := RSI(closes, 14)

	for i := range a {
		if math.IsNaN(a[i]) {
			assert.True(t, math.IsNaN(b[i]))
			continue
		}
		assert.InDelta(t, a[i], b[i], 1e-6)
	}
}

func TestLast(t *testing.T) {
	assert.True(t, math.IsNaN(Last(nil, 14)))
	assert.True(t, math.IsNaN(Last([]float64{1, 2, 3}, 14)))

	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	assert.Equal(t, 100.0, Last(closes, 14))
}
