package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"hrblog/internal/metrics"

	"github.com/labstack/echo/v4"
)

// PrometheusMetrics records request count and latency per route template.
// Unmatched routes are collapsed into one label to bound cardinality.
func PrometheusMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		path := c.Path()
		if path == "" {
			path = "unmatched"
		}

		status := c.Response().Status
		var httpErr *echo.HTTPError
		if err != nil && errors.As(err, &httpErr) {
			status = httpErr.Code
		} else if err != nil && !c.Response().Committed {
			status = http.StatusInternalServerError
		}

		method := c.Request().Method
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}
