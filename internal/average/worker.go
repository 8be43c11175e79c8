package average

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/gradebook/gradebook/internal/record"
)

// Result is one computed average, keyed by roll number in the result map.
type Result struct {
	Average float64 `json:"average"`
}

// Outcome is the per-record result of one worker step: either a computed
// average or a skip carrying the reason. Skips are recoverable — the
// worker logs them and moves on to the next item.
type Outcome struct {
	RollNo  string
	Average float64 // set only when Skipped is false
	Skipped bool
	Reason  string // set only when Skipped is true
}

// computeRecord parses the three score fields and averages them, rounding
// to two decimal places. If any field fails to parse, the whole record is
// skipped and the reason names the offending field.
func computeRecord(rec record.Record) Outcome {
	fields := []struct {
		name  string
		value string
	}{
		{"english", rec.English},
		{"maths", rec.Maths},
		{"science", rec.Science},
	}

	var sum float64
	for _, f := range fields {
		// cast maps the empty string to 0 without an error; an empty score
		// is missing data, not a zero mark, so skip it explicitly.
		if strings.TrimSpace(f.value) == "" {
			return Outcome{
				RollNo:  rec.RollNo,
				Skipped: true,
				Reason:  fmt.Sprintf("%s score is empty", f.name),
			}
		}
		v, err := cast.ToFloat64E(f.value)
		if err != nil {
			return Outcome{
				RollNo:  rec.RollNo,
				Skipped: true,
				Reason:  fmt.Sprintf("%s score %q is not a number", f.name, f.value),
			}
		}
		sum += v
	}

	return Outcome{
		RollNo:  rec.RollNo,
		Average: round2(sum / 3),
	}
}

// round2 rounds v to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
