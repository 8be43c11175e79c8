package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gradebook/gradebook/internal/api"
	"github.com/gradebook/gradebook/internal/average"
	"github.com/gradebook/gradebook/internal/record"
)

// --- test helpers -----------------------------------------------------------

// newHandler builds a Handler over a fresh temp-file store pre-loaded with recs.
func newHandler(t *testing.T, recs ...record.Record) (http.Handler, *record.Store) {
	t.Helper()
	st, err := record.New(filepath.Join(t.TempDir(), "students.csv"))
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}
	for _, rec := range recs {
		if err := st.Upsert(rec); err != nil {
			t.Fatalf("seed Upsert: %v", err)
		}
	}
	eng := average.New(3, 64, nil)
	return api.New(st, eng, nil), st
}

func rec(rollNo, name, eng, maths, sci string) record.Record {
	return record.Record{RollNo: rollNo, Name: name, English: eng, Maths: maths, Science: sci}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /api/v1/health ---------------------------------------------------------

func TestHealth(t *testing.T) {
	h, _ := newHandler(t, rec("1", "asha", "60", "70", "80"))
	rr := do(t, h, http.MethodGet, "/api/v1/health", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp map[string]interface{}
	decode(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status field: got %v, want ok", resp["status"])
	}
	if resp["record_count"].(float64) != 1 {
		t.Errorf("record_count: got %v, want 1", resp["record_count"])
	}
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	h, _ := newHandler(t)
	rr := do(t, h, http.MethodPost, "/api/v1/health", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}

// --- /api/v1/records --------------------------------------------------------

func TestListRecords(t *testing.T) {
	h, _ := newHandler(t,
		rec("1", "asha", "60", "70", "80"),
		rec("2", "vikram", "90", "90", "90"),
	)
	rr := do(t, h, http.MethodGet, "/api/v1/records", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var out []map[string]interface{}
	decode(t, rr, &out)
	if len(out) != 2 {
		t.Fatalf("records: got %d, want 2", len(out))
	}
	if out[0]["rollno"] != "1" || out[1]["rollno"] != "2" {
		t.Errorf("rollnos: got %v,%v", out[0]["rollno"], out[1]["rollno"])
	}
}

func TestListRecords_Empty(t *testing.T) {
	h, _ := newHandler(t)
	rr := do(t, h, http.MethodGet, "/api/v1/records", "")
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Errorf("empty list body: got %q, want []", body)
	}
}

func TestUpsertRecord(t *testing.T) {
	h, st := newHandler(t)
	rr := do(t, h, http.MethodPost, "/api/v1/records",
		`{"rollno":"1","name":"asha","english":"60","maths":"70","science":"80"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}
	got, err := st.Get("1")
	if err != nil {
		t.Fatalf("Get after upsert: %v", err)
	}
	if got.Name != "asha" {
		t.Errorf("stored Name: got %q, want asha", got.Name)
	}
}

func TestUpsertRecord_ReplacesByKey(t *testing.T) {
	h, st := newHandler(t, rec("1", "asha", "60", "70", "80"))
	rr := do(t, h, http.MethodPost, "/api/v1/records",
		`{"rollno":"1","name":"asha k","english":"65","maths":"75","science":"85"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	recs, err := st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("records after replace: got %d, want 1", len(recs))
	}
	if recs[0].English != "65" {
		t.Errorf("English after replace: got %q, want 65", recs[0].English)
	}
}

func TestUpsertRecord_MissingRollNo(t *testing.T) {
	h, _ := newHandler(t)
	rr := do(t, h, http.MethodPost, "/api/v1/records", `{"name":"nobody"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestUpsertRecord_InvalidJSON(t *testing.T) {
	h, _ := newHandler(t)
	rr := do(t, h, http.MethodPost, "/api/v1/records", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

// --- /api/v1/records/{rollno} -----------------------------------------------

func TestGetRecord(t *testing.T) {
	h, _ := newHandler(t, rec("7", "meera", "55", "65", "75"))
	rr := do(t, h, http.MethodGet, "/api/v1/records/7", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var out map[string]interface{}
	decode(t, rr, &out)
	if out["name"] != "meera" {
		t.Errorf("name: got %v, want meera", out["name"])
	}
}

func TestGetRecord_NotFound(t *testing.T) {
	h, _ := newHandler(t)
	rr := do(t, h, http.MethodGet, "/api/v1/records/missing", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestUpdateRecord(t *testing.T) {
	h, st := newHandler(t, rec("1", "asha", "60", "70", "80"))
	rr := do(t, h, http.MethodPut, "/api/v1/records/1",
		`{"name":"asha","english":"100","maths":"100","science":"100"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}
	got, err := st.Get("1")
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if got.Maths != "100" {
		t.Errorf("Maths after update: got %q, want 100", got.Maths)
	}
}

func TestUpdateRecord_NotFound(t *testing.T) {
	h, _ := newHandler(t)
	rr := do(t, h, http.MethodPut, "/api/v1/records/missing",
		`{"name":"x","english":"1","maths":"2","science":"3"}`)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestDeleteRecord(t *testing.T) {
	h, st := newHandler(t, rec("1", "asha", "60", "70", "80"))
	rr := do(t, h, http.MethodDelete, "/api/v1/records/1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	if _, err := st.Get("1"); err == nil {
		t.Error("record still present after delete")
	}
}

func TestDeleteRecord_NotFound(t *testing.T) {
	h, _ := newHandler(t)
	rr := do(t, h, http.MethodDelete, "/api/v1/records/missing", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestRecordByID_MethodNotAllowed(t *testing.T) {
	h, _ := newHandler(t, rec("1", "asha", "60", "70", "80"))
	rr := do(t, h, http.MethodPatch, "/api/v1/records/1", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}

// --- /api/v1/averages -------------------------------------------------------

func TestAverages(t *testing.T) {
	h, _ := newHandler(t,
		rec("R1", "a", "60", "70", "80"),
		rec("R2", "b", "abc", "70", "80"),
		rec("R3", "c", "90", "90", "90"),
	)
	rr := do(t, h, http.MethodGet, "/api/v1/averages", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", rr.Code, rr.Body.String())
	}
	var out map[string]struct {
		Average float64 `json:"average"`
	}
	decode(t, rr, &out)

	if len(out) != 2 {
		t.Fatalf("averages: got %d entries, want 2 (%v)", len(out), out)
	}
	if out["R1"].Average != 70.0 {
		t.Errorf("R1 average: got %v, want 70.0", out["R1"].Average)
	}
	if out["R3"].Average != 90.0 {
		t.Errorf("R3 average: got %v, want 90.0", out["R3"].Average)
	}
	if _, ok := out["R2"]; ok {
		t.Error("R2 must be absent — its english score does not parse")
	}
}

func TestAverages_EmptyStore(t *testing.T) {
	h, _ := newHandler(t)
	rr := do(t, h, http.MethodGet, "/api/v1/averages", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "{}" {
		t.Errorf("empty averages body: got %q, want {}", body)
	}
}

func TestAverages_MethodNotAllowed(t *testing.T) {
	h, _ := newHandler(t)
	rr := do(t, h, http.MethodPost, "/api/v1/averages", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}

func TestAverages_QueueTooSmall(t *testing.T) {
	st, err := record.New(filepath.Join(t.TempDir(), "students.csv"))
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}
	for _, r := range []record.Record{
		rec("1", "a", "1", "2", "3"),
		rec("2", "b", "1", "2", "3"),
		rec("3", "c", "1", "2", "3"),
	} {
		if err := st.Upsert(r); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	h := api.New(st, average.New(2, 2, nil), nil)
	rr := do(t, h, http.MethodGet, "/api/v1/averages", "")
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "queue_size") {
		t.Errorf("body should name the sizing fault, got %q", rr.Body.String())
	}
}
