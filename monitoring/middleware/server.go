package middleware

import (
	"bskyposts/monitoring"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"net/http"
)

type ServerMiddleware struct {
	handler http.Handler
}

func (m *ServerMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/metrics" {
		// Scrapes are not counted as traffic
		m.handler.ServeHTTP(w, r)
		return
	}

	monitoring.HttpRequestsTotal.WithLabelValues(path).Inc()
	monitoring.ActiveConnections.Inc()
	defer monitoring.ActiveConnections.Dec()

	timer := prometheus.NewTimer(monitoring.HttpRequestDuration.WithLabelValues(path))
	wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	m.handler.ServeHTTP(wrapped, r)
	elapsed := timer.ObserveDuration()

	log.Infof("%s %s %d %s", r.Method, path, wrapped.status, elapsed)
}

func NewServerMiddleware(handlerToWrap http.Handler) *ServerMiddleware {
	return &ServerMiddleware{handlerToWrap}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
