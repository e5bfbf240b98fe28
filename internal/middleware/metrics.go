package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/challasumanth64/assist-respond-ai/internal/metrics"
)

// Metrics records request latency labelled by route template, not raw path.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			metrics.RecordHTTPRequest(c.Request().Method, path, strconv.Itoa(c.Response().Status), time.Since(start))
			return nil
		}
	}
}
