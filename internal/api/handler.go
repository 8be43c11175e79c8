package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gradebook/gradebook/internal/average"
	"github.com/gradebook/gradebook/internal/metrics"
	"github.com/gradebook/gradebook/internal/record"
)

// Handler is the HTTP handler for all /api/v1/* endpoints. It reads and
// mutates student records through the CSV store and runs the average
// engine on demand.
type Handler struct {
	store   *record.Store
	engine  *average.Engine
	metrics *metrics.Registry
	mux     *http.ServeMux
}

// New creates a Handler wired to the given store and engine and registers
// all routes. reg may be nil.
func New(st *record.Store, eng *average.Engine, reg *metrics.Registry) http.Handler {
	h := &Handler{store: st, engine: eng, metrics: reg, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/records", h.records)
	h.mux.HandleFunc("/api/v1/records/", h.recordByID) // subtree — extracts {rollno}
	h.mux.HandleFunc("/api/v1/averages", h.averages)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.metrics.HTTPRequest()
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — service status and record count.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	n, err := h.store.Count()
	if err != nil {
		jsonErr(w, http.StatusInternalServerError, "record store unavailable")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{Status: "ok", RecordCount: n})
}

// records dispatches GET (list) and POST (upsert) on /api/v1/records.
func (h *Handler) records(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listRecords(w, r)
	case http.MethodPost:
		h.upsertRecord(w, r)
	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// listRecords returns GET /api/v1/records — every stored record.
func (h *Handler) listRecords(w http.ResponseWriter, _ *http.Request) {
	recs, err := h.store.List()
	if err != nil {
		slog.Error("api: list records failed", "err", err)
		jsonErr(w, http.StatusInternalServerError, "failed to read records")
		return
	}

	out := make([]RecordPayload, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromRecord(rec))
	}
	jsonResp(w, http.StatusOK, out)
}

// upsertRecord handles POST /api/v1/records — insert or replace by key.
func (h *Handler) upsertRecord(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePayload(w, r, true)
	if !ok {
		return
	}

	if err := h.store.Upsert(p.toRecord()); err != nil {
		slog.Error("api: upsert failed", "rollno", p.RollNo, "err", err)
		jsonErr(w, http.StatusInternalServerError, "failed to save record")
		return
	}
	jsonResp(w, http.StatusOK, StatusResponse{Status: "success", RollNo: p.RollNo})
}

// recordByID dispatches GET/PUT/DELETE on /api/v1/records/{rollno}.
func (h *Handler) recordByID(w http.ResponseWriter, r *http.Request) {
	rollNo := strings.TrimPrefix(r.URL.Path, "/api/v1/records/")
	if rollNo == "" {
		// Bare /api/v1/records/ behaves like the collection route.
		h.records(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getRecord(w, rollNo)
	case http.MethodPut:
		h.updateRecord(w, r, rollNo)
	case http.MethodDelete:
		h.deleteRecord(w, rollNo)
	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) getRecord(w http.ResponseWriter, rollNo string) {
	rec, err := h.store.Get(rollNo)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			jsonErr(w, http.StatusNotFound, "record not found")
			return
		}
		slog.Error("api: get record failed", "rollno", rollNo, "err", err)
		jsonErr(w, http.StatusInternalServerError, "failed to read record")
		return
	}
	jsonResp(w, http.StatusOK, fromRecord(rec))
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request, rollNo string) {
	p, ok := decodePayload(w, r, false)
	if !ok {
		return
	}
	// The path segment is authoritative for the key.
	p.RollNo = rollNo

	if err := h.store.Update(p.toRecord()); err != nil {
		if errors.Is(err, record.ErrNotFound) {
			jsonErr(w, http.StatusNotFound, "record not found")
			return
		}
		slog.Error("api: update failed", "rollno", rollNo, "err", err)
		jsonErr(w, http.StatusInternalServerError, "failed to save record")
		return
	}
	jsonResp(w, http.StatusOK, StatusResponse{Status: "success", RollNo: rollNo})
}

func (h *Handler) deleteRecord(w http.ResponseWriter, rollNo string) {
	if err := h.store.Delete(rollNo); err != nil {
		if errors.Is(err, record.ErrNotFound) {
			jsonErr(w, http.StatusNotFound, "record not found")
			return
		}
		slog.Error("api: delete failed", "rollno", rollNo, "err", err)
		jsonErr(w, http.StatusInternalServerError, "failed to delete record")
		return
	}
	jsonResp(w, http.StatusOK, StatusResponse{Status: "success", RollNo: rollNo})
}

// averages returns GET /api/v1/averages — the engine's result map, one
// entry per record that parsed cleanly. A partial map is still a success;
// only a snapshot read failure or a queue sizing fault is an error.
func (h *Handler) averages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	results, err := h.engine.Compute(r.Context(), h.store)
	if err != nil {
		slog.Error("api: compute averages failed", "err", err)
		if errors.Is(err, average.ErrQueueFull) {
			jsonErr(w, http.StatusInternalServerError,
				"compute.queue_size is smaller than the record count")
			return
		}
		jsonErr(w, http.StatusInternalServerError, "failed to compute averages")
		return
	}
	jsonResp(w, http.StatusOK, results)
}

// --- helpers ----------------------------------------------------------------

// decodePayload parses the request body into a RecordPayload. When
// requireKey is set, a missing rollno is a 400 — used on the collection
// route, where the body is the only key source. It writes the error
// response itself and returns ok=false on failure.
func decodePayload(w http.ResponseWriter, r *http.Request, requireKey bool) (RecordPayload, bool) {
	var p RecordPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return p, false
	}
	if requireKey && p.RollNo == "" {
		jsonErr(w, http.StatusBadRequest, "rollno is required")
		return p, false
	}
	return p, true
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
