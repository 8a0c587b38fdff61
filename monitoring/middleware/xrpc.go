package middleware

import (
	"bskyposts/monitoring"
	"context"
	"github.com/prometheus/client_golang/prometheus"
)

type CallHandler func(context.Context) error

// XRPCMiddleware records count, outcome and latency of calls to one API method.
type XRPCMiddleware struct {
	method string
}

func (m *XRPCMiddleware) HandleCall(ctx context.Context, handler CallHandler) error {
	timer := prometheus.NewTimer(monitoring.XRPCCallDuration.WithLabelValues(m.method))
	err := handler(ctx)
	timer.ObserveDuration()

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	monitoring.XRPCCalls.WithLabelValues(m.method, outcome).Inc()

	return err
}

func NewXRPCMiddleware(method string) *XRPCMiddleware {
	return &XRPCMiddleware{method}
}
