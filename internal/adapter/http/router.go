package http

import (
	"fmt"
	"net/http"
	"time"

	"valutatrade-hub/internal/metrics"
	"valutatrade-hub/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	handler *Handler
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewRouter(handler *Handler, log *logger.Logger, metrics *metrics.Metrics) *Router {
	return &Router{
		handler: handler,
		log:     log,
		metrics: metrics,
	}
}

func (r *Router) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()

		crw := &customResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(crw, req)

		duration := time.Since(start)
		if req.URL.Path != "/metrics" {
			statusClass := fmt.Sprintf("%dxx", crw.statusCode/100)
			r.metrics.ObserveHTTPRequest(req.URL.Path, req.Method, statusClass, duration)
		}

		r.log.Info("HTTP request",
			"method", req.Method,
			"path", req.URL.Path,
			"query", req.URL.RawQuery,
			"status", crw.statusCode,
			"duration", duration,
			"remote_addr", req.RemoteAddr,
			"user_agent", req.UserAgent(),
		)
	})
}

type customResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (crw *customResponseWriter) WriteHeader(code int) {
	crw.statusCode = code
	crw.ResponseWriter.WriteHeader(code)
}

func (r *Router) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/rates", r.handler.GetRateHandler)
	mux.HandleFunc("/api/v1/rates/all", r.handler.ListRatesHandler)
	mux.HandleFunc("/api/v1/rates/history", r.handler.RateHistoryHandler)
	mux.HandleFunc("/api/v1/refresh", r.handler.RefreshHandler)
	mux.HandleFunc("/api/v1/portfolio/value", r.handler.PortfolioValueHandler)
	mux.HandleFunc("/api/v1/status", r.handler.StatusHandler)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	apiWithMiddleware := r.loggingMiddleware(mux)

	rootMux := http.NewServeMux()

	rootMux.Handle("/", apiWithMiddleware)
	rootMux.Handle("/api/", apiWithMiddleware)

	rootMux.Handle("/metrics", promhttp.Handler())

	return rootMux
}
