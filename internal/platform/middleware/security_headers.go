package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	apiCSP = "default-src 'none'; frame-ancestors 'none'"
	// Chart pages load the ECharts bundle from the asset host.
	chartCSP = "default-src 'none'; script-src 'unsafe-inline' %s; style-src 'unsafe-inline'; frame-ancestors 'none'"
)

// SecurityHeaders sets response headers suited to an API that returns
// medical data. Routes ending in /risk-chart render HTML and get a CSP that
// admits the chart script host.
func SecurityHeaders(chartAssetsHost string) echo.MiddlewareFunc {
	chartPolicy := strings.Replace(chartCSP, "%s", chartAssetsHost, 1)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			h.Set("Referrer-Policy", "no-referrer")
			// Reports must not be cached by intermediaries.
			h.Set("Cache-Control", "no-store")

			if strings.HasSuffix(c.Path(), "/risk-chart") {
				h.Set("Content-Security-Policy", chartPolicy)
			} else {
				h.Set("Content-Security-Policy", apiCSP)
			}
			return next(c)
		}
	}
}
