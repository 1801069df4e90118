package handler

import (
	"net/http"

	"github.com/DMarby/cdnstyle/internal/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
)

// Tracer is a handler that traces requests, naming spans after the matched route.
// Requests to the untraced routes, such as load balancer health checks, are not traced.
func Tracer(tracer *tracing.Tracer, h http.Handler, routeMatcher RouteMatcher, untraced ...string) http.Handler {
	skip := make(map[string]bool, len(untraced))
	for _, route := range untraced {
		skip[route] = true
	}

	return otelhttp.NewHandler(
		h,
		"http",
		otelhttp.WithTracerProvider(tracer),
		otelhttp.WithPropagators(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return !skip[routeMatcher.Match(r)]
		}),
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return routeMatcher.Match(r)
		}),
	)
}
