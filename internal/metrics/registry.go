package metrics

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Metric names in the exposition output.
const (
	nameInvocations  = "gradebook_compute_invocations_total"
	nameComputed     = "gradebook_records_computed_total"
	nameSkipped      = "gradebook_records_skipped_total"
	nameHTTPRequests = "gradebook_http_requests_total"
)

// Registry holds the service's counters.
type Registry struct {
	invocations  atomic.Uint64
	computed     atomic.Uint64
	skipped      atomic.Uint64
	httpRequests atomic.Uint64
}

// New returns an empty Registry.
func New() *Registry { return &Registry{} }

// ComputeFinished records one finished average computation with the given
// per-record outcome counts.
func (r *Registry) ComputeFinished(computed, skipped int) {
	if r == nil {
		return
	}
	r.invocations.Add(1)
	r.computed.Add(uint64(computed))
	r.skipped.Add(uint64(skipped))
}

// HTTPRequest records one handled HTTP request.
func (r *Registry) HTTPRequest() {
	if r == nil {
		return
	}
	r.httpRequests.Add(1)
}

// Handler returns the GET /metrics handler.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		families := []*dto.MetricFamily{
			counterFamily(nameInvocations,
				"Total number of average-computation invocations.",
				float64(r.invocations.Load())),
			counterFamily(nameComputed,
				"Total records whose average was computed successfully.",
				float64(r.computed.Load())),
			counterFamily(nameSkipped,
				"Total records skipped because a score failed to parse.",
				float64(r.skipped.Load())),
			counterFamily(nameHTTPRequests,
				"Total HTTP requests handled by the API.",
				float64(r.httpRequests.Load())),
		}

		format := expfmt.NewFormat(expfmt.TypeTextPlain)
		w.Header().Set("Content-Type", string(format))
		enc := expfmt.NewEncoder(w, format)
		for _, mf := range families {
			if err := enc.Encode(mf); err != nil {
				slog.Error("metrics: encode family failed",
					"family", mf.GetName(), "err", err)
				return
			}
		}
	})
}

// counterFamily builds a single-sample counter MetricFamily.
func counterFamily(name, help string, value float64) *dto.MetricFamily {
	typ := dto.MetricType_COUNTER
	return &dto.MetricFamily{
		Name: &name,
		Help: &help,
		Type: &typ,
		Metric: []*dto.Metric{
			{Counter: &dto.Counter{Value: &value}},
		},
	}
}
