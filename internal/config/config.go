package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Exchange ExchangeConfig
	Strategy StrategyConfig
	Runtime  RuntimeConfig
}

type ExchangeConfig struct {
	BaseUrl string
	WSUrl   string
	ApiKey  string
	Secret  string
}

// StrategyConfig is immutable for the whole run; it is validated once and
// then passed into the engine by value.
type StrategyConfig struct {
	Symbol           string
	Timeframe        string
	RSIPeriod        int
	Oversold         float64
	Overbought       float64
	InitialLot       float64
	Martingale       bool
	MaxSteps         int
	Multiplier       float64
	TakeProfitAmount float64
	StopLossAmount   float64
	Deviation        int
	HistoryBars      int
}

type RuntimeConfig struct {
	DryRun      bool
	MetricsAddr string
	Log         LogConfig
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

func Load() (*Config, error) {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	viper.ReadInConfig()

	setDefaults()

	cfg := &Config{}

	cfg.Exchange = ExchangeConfig{
		BaseUrl: viper.GetString("exchange.base_url"),
		WSUrl:   viper.GetString("exchange.ws_url"),
		ApiKey:  envSub("exchange.api_key"),
		Secret:  envSub("exchange.secret"),
	}

	cfg.Strategy = StrategyConfig{
		Symbol:           viper.GetString("strategy.symbol"),
		Timeframe:        strings.ToUpper(viper.GetString("strategy.timeframe")),
		RSIPeriod:        viper.GetInt("strategy.rsi_period"),
		Oversold:         viper.GetFloat64("strategy.rsi_oversold"),
		Overbought:       viper.GetFloat64("strategy.rsi_overbought"),
		InitialLot:       viper.GetFloat64("strategy.initial_lot"),
		Martingale:       viper.GetBool("strategy.martingale"),
		MaxSteps:         viper.GetInt("strategy.max_steps"),
		Multiplier:       viper.GetFloat64("strategy.multiplier"),
		TakeProfitAmount: viper.GetFloat64("strategy.take_profit"),
		StopLossAmount:   viper.GetFloat64("strategy.stop_loss"),
		Deviation:        viper.GetInt("strategy.deviation"),
		HistoryBars:      viper.GetInt("strategy.history_bars"),
	}

	cfg.Runtime = RuntimeConfig{
		DryRun:      viper.GetBool("runtime.dry_run"),
		MetricsAddr: viper.GetString("runtime.metrics_addr"),
		Log: LogConfig{
			Level:      viper.GetString("runtime.log.level"),
			Format:     viper.GetString("runtime.log.format"),
			File:       viper.GetString("runtime.log.file"),
			MaxSize:    viper.GetInt("runtime.log.max_size"),
			MaxBackups: viper.GetInt("runtime.log.max_backups"),
			MaxAge:     viper.GetInt("runtime.log.max_age"),
			Compress:   viper.GetBool("runtime.log.compress"),
		},
	}

	cfg.Strategy.Normalize()
	if err := cfg.Strategy.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("strategy.timeframe", "M1")
	viper.SetDefault("strategy.rsi_period", 14)
	viper.SetDefault("strategy.rsi_oversold", 30)
	viper.SetDefault("strategy.rsi_overbought", 70)
	viper.SetDefault("strategy.initial_lot", 0.01)
	viper.SetDefault("strategy.martingale", true)
	viper.SetDefault("strategy.max_steps", 5)
	viper.SetDefault("strategy.multiplier", 2)
	viper.SetDefault("strategy.take_profit", 15)
	viper.SetDefault("strategy.stop_loss", 10)
	viper.SetDefault("strategy.deviation", 20)
	viper.SetDefault("strategy.history_bars", 200)
	viper.SetDefault("runtime.metrics_addr", ":9109")
	viper.SetDefault("runtime.log.level", "info")
}

// Normalize collapses the martingale-off case to a single-leg ladder so the
// rest of the engine never has to special-case it.
func (s *StrategyConfig) Normalize() {
	if !s.Martingale {
		s.MaxSteps = 1
		s.Multiplier = 1
	}
}

func (s StrategyConfig) Validate() error {
	if s.Symbol == "" {
		return fmt.Errorf("strategy.symbol is required")
	}
	if s.RSIPeriod < 2 {
		return fmt.Errorf("strategy.rsi_period must be at least 2, got %d", s.RSIPeriod)
	}
	if s.Oversold >= s.Overbought {
		return fmt.Errorf("strategy.rsi_oversold (%v) must be below strategy.rsi_overbought (%v)", s.Oversold, s.Overbought)
	}
	if s.InitialLot <= 0 {
		return fmt.Errorf("strategy.initial_lot must be positive, got %v", s.InitialLot)
	}
	if s.MaxSteps < 1 {
		return fmt.Errorf("strategy.max_steps must be at least 1, got %d", s.MaxSteps)
	}
	if s.Multiplier < 1 {
		return fmt.Errorf("strategy.multiplier must be at least 1, got %v", s.Multiplier)
	}
	if s.TakeProfitAmount <= 0 || s.StopLossAmount <= 0 {
		return fmt.Errorf("strategy.take_profit and strategy.stop_loss must be positive")
	}
	if s.HistoryBars < s.RSIPeriod+1 {
		return fmt.Errorf("strategy.history_bars (%d) must cover at least rsi_period+1 bars", s.HistoryBars)
	}
	return nil
}

func envSub(key string) string {
	val := viper.GetString(key)
	if val == "" {
		return ""
	}

	re := regexp.MustCompile(`\$\{(\w+)\}`)
	return re.ReplaceAllStringFunc(val, func(match string) string {
		envKey := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(envKey)
	})
}
