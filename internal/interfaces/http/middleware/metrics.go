package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	"github.com/marketplace/backend/internal/infrastructure/telemetry"
)

const unmatchedRoute = "unmatched"

// HTTPMetrics records request counts and latency per route.
// A nil meter, or instruments that fail to register, yields a pass-through middleware.
func HTTPMetrics(meter metric.Meter) gin.HandlerFunc {
	passThrough := func(c *gin.Context) { c.Next() }
	if meter == nil {
		return passThrough
	}

	requests, err := telemetry.NewCounter(meter, telemetry.HTTPRequests)
	if err != nil {
		return passThrough
	}
	duration, err := telemetry.NewHistogram(meter, telemetry.HTTPDuration)
	if err != nil {
		return passThrough
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := telemetry.AttrHTTPMethod.String(c.Request.Method)
		routeAttr := telemetry.AttrHTTPRoute.String(route)

		requests.Inc(ctx, method, routeAttr, telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))
		duration.ObserveSince(ctx, start, method, routeAttr)
	}
}
