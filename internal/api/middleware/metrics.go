// Package middleware provides Echo middleware for the pricediff ops server.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/pricediff/internal/metrics"
)

// unmatchedPath labels requests that hit no registered route, keeping the
// path label bounded.
const unmatchedPath = "unmatched"

// probeGauges maps probe paths to their up/down gauge. Probe and scrape
// paths are not counted as requests.
var probeGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
	"/metrics": nil,
}

// Metrics returns Echo middleware that records request count and latency
// by method, route and status.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := routePath(c)
			status := responseStatus(c, err)

			if gauge, ok := probeGauges[path]; ok {
				if gauge != nil {
					gauge.Set(boolGauge(status < 300))
				}
				return err
			}

			code := strconv.Itoa(status)
			method := c.Request().Method
			metrics.HTTPRequestDuration.
				WithLabelValues(method, path, code).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, path, code).
				Inc()

			return err
		}
	}
}

func routePath(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	if p := c.Request().URL.Path; p != "" {
		if _, ok := probeGauges[p]; ok {
			return p
		}
	}
	return unmatchedPath
}

// responseStatus resolves the status for a request whose handler returned
// an error before writing a response.
func responseStatus(c echo.Context, err error) int {
	if c.Response().Committed || err == nil {
		return c.Response().Status
	}
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 500
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
