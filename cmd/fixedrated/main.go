package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-fixedrate/internal/config"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to initialize config")
	}

	ctx := context.Background()
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	appConfig, err := config.ApplicationConfig(ctx, registry)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize application")
	}
	defer appConfig.Close()

	count, err := appConfig.ExchangeService().CountExchanges(ctx)
	if err != nil {
		log.WithError(err).Fatal("failed to count exchanges")
	}
	log.WithFields(log.Fields{
		"db":        config.GetString(config.DBTypeKey),
		"exchanges": count,
	}).Info("exchange service ready")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              config.GetString(config.MetricsAddrKey),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("error serving metrics")
		}
	}()
	log.Infof("serving metrics on %s", server.Addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down daemon")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("failed to stop metrics server")
	}
	log.Info("exiting")
}
