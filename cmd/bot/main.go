package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fdjrr/mt5-livetrade/internal/config"
	"github.com/fdjrr/mt5-livetrade/internal/engine"
	"github.com/fdjrr/mt5-livetrade/internal/exchange"
	"github.com/fdjrr/mt5-livetrade/internal/exchange/mt5"
	"github.com/fdjrr/mt5-livetrade/internal/exchange/paper"
	"github.com/fdjrr/mt5-livetrade/internal/logger"
	"github.com/fdjrr/mt5-livetrade/internal/metrics"
	"github.com/joho/godotenv"
)

func main() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Runtime.Log.Level,
		Format:     cfg.Runtime.Log.Format,
		Output:     cfg.Runtime.Log.File,
		MaxSize:    cfg.Runtime.Log.MaxSize,
		MaxBackups: cfg.Runtime.Log.MaxBackups,
		MaxAge:     cfg.Runtime.Log.MaxAge,
		Compress:   cfg.Runtime.Log.Compress,
	})

	log.Info("Bot started.")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := mt5.New(cfg.Exchange.BaseUrl, cfg.Exchange.WSUrl, cfg.Exchange.ApiKey, cfg.Exchange.Secret, log)
	if err := client.Start(ctx, cfg.Strategy.Symbol); err != nil {
		log.WithError(err).Warn("Tick stream unavailable, falling back to polling.")
	}

	var gw exchange.Gateway = client
	if cfg.Runtime.DryRun {
		log.Info("Dry run: orders are simulated in memory.")
		gw = paper.New(client, log)
	}

	if cfg.Runtime.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.Runtime.MetricsAddr, mux); err != nil {
				log.WithError(err).Warn("Metrics server stopped.")
			}
		}()
	}

	eng := engine.New(cfg.Strategy, gw, log)

	go func() {
		if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
			log.WithError(err).Fatal("Engine stopped with an error.")
		}
	}()
	<-sigCh

	cancel()

	log.Info("Bot stopped.")
}
