package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	return c
}

func TestCollector_ObserveIngestion(t *testing.T) {
	c := newTestCollector(t)

	c.ObserveIngestion("ok", 42)
	c.ObserveIngestion("fetch_failed", 42)
	c.ObserveIngestion("ok", 40)

	if got := testutil.ToFloat64(c.IngestionResults.WithLabelValues("ok")); got != 2 {
		t.Errorf("ingestion ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.StatesLoaded); got != 40 {
		t.Errorf("states loaded = %v, want 40", got)
	}
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveIngestion("ok", 1)
	c.ObserveGeocode("found")
}

func TestCollector_MiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := newTestCollector(t)

	router := gin.New()
	router.Use(c.Middleware())
	router.GET("/epochs/:epoch", func(ctx *gin.Context) { ctx.String(http.StatusNotFound, "") })
	router.GET("/metrics", gin.WrapH(c.Handler()))

	for _, ts := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/epochs/"+ts, nil)
		router.ServeHTTP(w, req)
	}

	if got := testutil.ToFloat64(c.HTTPRequests.WithLabelValues("/epochs/:epoch", "GET", "404")); got != 3 {
		t.Errorf("requests = %v, want 3", got)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	router.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), "iss_tracker_http_requests_total") {
		t.Errorf("expected metrics exposition to include request counter")
	}
}

func TestNewCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewCollector(reg); err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	if _, err := NewCollector(reg); err == nil {
		t.Error("expected error registering collectors twice")
	}
}
