package metrics

import (
	"context"
	"net/http"
	"net/http/pprof"

	"github.com/DMarby/cdnstyle/internal/handler"
	"github.com/DMarby/cdnstyle/internal/health"
	"github.com/DMarby/cdnstyle/internal/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Serve starts an http server for metrics and healthchecks
func Serve(ctx context.Context, log *logger.Logger, healthChecker *health.Checker, listenAddress string) {
	router := http.NewServeMux()
	router.Handle("/metrics", promhttp.Handler())
	router.Handle("/health", handler.Health(healthChecker))

	router.HandleFunc("/debug/pprof/", pprof.Index)
	router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("/debug/pprof/profile", pprof.Profile)
	router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("/debug/pprof/trace", pprof.Trace)

	server := &http.Server{
		Addr:     listenAddress,
		Handler:  router,
		ErrorLog: logger.NewHTTPErrorLog(log),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Infof("shutting down the metrics http server: %s", err)
		}
	}()

	log.Infof("metrics http server listening on %s", listenAddress)

	<-ctx.Done()

	if err := server.Close(); err != nil {
		log.Warnf("error shutting down metrics http server: %s", err)
	}
}
