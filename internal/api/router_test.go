package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/guttosm/contractpulse/internal/domain/models"
	"github.com/guttosm/contractpulse/internal/metrics"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &mockQualityService{overview: models.QualityMetrics{TotalContracts: 7}}
	reg := prometheus.NewRegistry()
	r := NewRouter(NewHandler(svc), RouterOptions{RateLimitPerMinute: 100, Metrics: metrics.New(reg, reg)})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quality/overview", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	var out struct {
		Metrics models.QualityMetrics `json:"metrics"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.Metrics.TotalContracts != 7 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	// The request above must be visible on the scrape endpoint.
	mw := httptest.NewRecorder()
	r.ServeHTTP(mw, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mw.Code != http.StatusOK {
		t.Fatalf("metrics status=%d", mw.Code)
	}
	if !strings.Contains(mw.Body.String(), `route="/api/v1/quality/overview"`) {
		t.Fatalf("request not recorded:\n%s", mw.Body.String())
	}
}

func TestNewRouter_WithoutMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(NewHandler(&mockQualityService{}), RouterOptions{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("metrics should not be mounted, got %d", w.Code)
	}
}
