package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStrategy() StrategyConfig {
	return StrategyConfig{
		Symbol:           "XAUUSD",
		Timeframe:        "M1",
		RSIPeriod:        14,
		Oversold:         30,
		Overbought:       70,
		InitialLot:       0.01,
		Martingale:       true,
		MaxSteps:         5,
		Multiplier:       2,
		TakeProfitAmount: 15,
		StopLossAmount:   10,
		Deviation:        20,
		HistoryBars:      200,
	}
}

func TestStrategyConfig_Valid(t *testing.T) {
	require.NoError(t, validStrategy().Validate())
}

func TestStrategyConfig_NormalizeMartingaleOff(t *testing.T) {
	s := validStrategy()
	s.Martingale = false
	s.MaxSteps = 5
	s.Multiplier = 2

	s.Normalize()

	assert.Equal(t, 1, s.MaxSteps)
	assert.Equal(t, 1.0, s.Multiplier)
	require.NoError(t, s.Validate())
}

func TestStrategyConfig_NormalizeMartingaleOnIsUntouched(t *testing.T) {
	s := validStrategy()
	s.Normalize()

	assert.Equal(t, 5, s.MaxSteps)
	assert.Equal(t, 2.0, s.Multiplier)
}

func TestStrategyConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StrategyConfig)
	}{
		{"missing symbol", func(s *StrategyConfig) { s.Symbol = "" }},
		{"period too small", func(s *StrategyConfig) { s.RSIPeriod = 1 }},
		{"thresholds inverted", func(s *StrategyConfig) { s.Oversold = 70; s.Overbought = 30 }},
		{"thresholds equal", func(s *StrategyConfig) { s.Oversold = 50; s.Overbought = 50 }},
		{"zero lot", func(s *StrategyConfig) { s.InitialLot = 0 }},
		{"zero steps", func(s *StrategyConfig) { s.MaxSteps = 0 }},
		{"multiplier below one", func(s *StrategyConfig) { s.Multiplier = 0.5 }},
		{"zero take profit", func(s *StrategyConfig) { s.TakeProfitAmount = 0 }},
		{"zero stop loss", func(s *StrategyConfig) { s.StopLossAmount = 0 }},
		{"history too short", func(s *StrategyConfig) { s.HistoryBars = 10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStrategy()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}
