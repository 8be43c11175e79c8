package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	rr := httptest.NewRecorder()
	r.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	return rr.Body.String()
}

func TestHandler_ExposesCounters(t *testing.T) {
	r := New()
	r.ComputeFinished(3, 1)
	r.ComputeFinished(2, 0)
	r.HTTPRequest()

	body := scrape(t, r)

	wantLines := []string{
		"gradebook_compute_invocations_total 2",
		"gradebook_records_computed_total 5",
		"gradebook_records_skipped_total 1",
		"gradebook_http_requests_total 1",
	}
	for _, line := range wantLines {
		if !strings.Contains(body, line) {
			t.Errorf("exposition missing %q\n%s", line, body)
		}
	}
	if !strings.Contains(body, "# TYPE gradebook_records_computed_total counter") {
		t.Errorf("exposition missing TYPE line\n%s", body)
	}
}

func TestHandler_ZeroValues(t *testing.T) {
	body := scrape(t, New())
	if !strings.Contains(body, "gradebook_compute_invocations_total 0") {
		t.Errorf("fresh registry should expose zero counters\n%s", body)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	New().Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}

func TestRegistry_NilReceiverSafe(t *testing.T) {
	var r *Registry
	// Must not panic.
	r.ComputeFinished(1, 1)
	r.HTTPRequest()
}
