package middleware

import (
	"net/http"
	"strings"
	"testing"
)

const testAssetsHost = "https://go-echarts.github.io"

func TestSecurityHeaders_API(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/api/v1/medical-reports/x/executive")
	c.SetPath("/api/v1/medical-reports/:id/executive")

	if err := SecurityHeaders(testAssetsHost)(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := rec.Header()
	if h.Get("X-Content-Type-Options") != "nosniff" || h.Get("Cache-Control") != "no-store" {
		t.Errorf("missing base headers: %v", h)
	}
	if h.Get("Content-Security-Policy") != apiCSP {
		t.Errorf("expected API CSP, got %q", h.Get("Content-Security-Policy"))
	}
}

func TestSecurityHeaders_Chart(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/api/v1/medical-reports/x/risk-chart")
	c.SetPath("/api/v1/medical-reports/:id/risk-chart")

	SecurityHeaders(testAssetsHost)(okHandler)(c)

	csp := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "script-src 'unsafe-inline' "+testAssetsHost) {
		t.Errorf("expected chart CSP to admit the asset host, got %q", csp)
	}
}
