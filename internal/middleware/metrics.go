package middleware

import (
	"strconv"
	"time"

	"pos/internal/metrics"

	"github.com/labstack/echo/v4"
)

// ルート単位でリクエスト数とレイテンシを記録する
func Metrics(m *metrics.ServerMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.Requests.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			m.LatencyMS.WithLabelValues(method, route).Observe(float64(time.Since(start).Milliseconds()))
			return nil
		}
	}
}
