package api

import "github.com/gradebook/gradebook/internal/record"

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status      string `json:"status"`
	RecordCount int    `json:"record_count"`
}

// StatusResponse acknowledges a successful mutation.
type StatusResponse struct {
	Status string `json:"status"`
	RollNo string `json:"rollno"`
}

// RecordPayload is the request/response body for one student record.
// Score fields are raw text end to end — the averages endpoint decides
// what parses.
type RecordPayload struct {
	RollNo  string `json:"rollno"`
	Name    string `json:"name"`
	English string `json:"english"`
	Maths   string `json:"maths"`
	Science string `json:"science"`
}

// toRecord converts the payload to the store model.
func (p RecordPayload) toRecord() record.Record {
	return record.Record{
		RollNo:  p.RollNo,
		Name:    p.Name,
		English: p.English,
		Maths:   p.Maths,
		Science: p.Science,
	}
}

// fromRecord converts the store model to a payload.
func fromRecord(r record.Record) RecordPayload {
	return RecordPayload{
		RollNo:  r.RollNo,
		Name:    r.Name,
		English: r.English,
		Maths:   r.Maths,
		Science: r.Science,
	}
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
