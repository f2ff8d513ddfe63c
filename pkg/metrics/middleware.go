package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Служебные эндпоинты не попадают в HTTP метрики
var skippedPaths = map[string]struct{}{
	"/metrics": {},
	"/health":  {},
}

// GinPrometheusMiddleware собирает http_requests_total, http_request_duration_seconds
// и http_requests_in_flight, путь в лейблах берется из шаблона маршрута
func GinPrometheusMiddleware(service string) gin.HandlerFunc {
	inFlight := HttpRequestsInFlight.WithLabelValues(service)

	return func(c *gin.Context) {
		if _, skip := skippedPaths[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		start := time.Now()
		inFlight.Inc()
		defer inFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		HttpRequestsTotal.WithLabelValues(service, c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HttpRequestDuration.WithLabelValues(service, c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
