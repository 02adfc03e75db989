package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/layers/{id}/opacity", http.MethodPut, "204"))
	w := do(t, newMock(), http.MethodPut, "/layers/abc/opacity", "application/json", `{"opacity":0.5}`)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/layers/{id}/opacity", http.MethodPut, "204"))
	if after-before != 1 {
		t.Fatalf("counter delta=%v", after-before)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_ = do(t, newMock(), http.MethodGet, "/healthz", "", "")
	w := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !bytes.Contains(w.Body.Bytes(), []byte("mapbuilder_http_requests_total")) {
		t.Fatalf("metric missing from /metrics output")
	}
}

func TestReplaceCounter(t *testing.T) {
	before := testutil.ToFloat64(mapReplacementsTotal.WithLabelValues("yaml", "parse_error"))
	_ = do(t, newMock(), http.MethodPut, "/map", "application/yaml", "style: [unclosed")
	if d := testutil.ToFloat64(mapReplacementsTotal.WithLabelValues("yaml", "parse_error")) - before; d != 1 {
		t.Fatalf("parse_error delta=%v", d)
	}
}

func TestFirstSegment(t *testing.T) {
	cases := map[string]string{"": "/", "/": "/", "/status": "/status", "/layers/x/opacity": "/layers"}
	for in, want := range cases {
		if got := firstSegment(in); got != want {
			t.Fatalf("%q: got %q want %q", in, got, want)
		}
	}
}
