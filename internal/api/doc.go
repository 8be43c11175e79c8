// Package api implements the gradebook HTTP JSON API.
//
// New(store, engine, registry) returns an http.Handler that serves:
//
//	GET    /api/v1/health            — service status and record count
//	GET    /api/v1/records           — all records
//	POST   /api/v1/records           — upsert one record (replace-by-key)
//	GET    /api/v1/records/{rollno}  — single record; 404 if unknown
//	PUT    /api/v1/records/{rollno}  — update existing record; 404 if unknown
//	DELETE /api/v1/records/{rollno}  — delete record; 404 if unknown
//	GET    /api/v1/averages          — per-student score averages
//
// The averages payload holds one entry per record whose three scores all
// parse as numbers; records with unparseable scores are absent from the
// map, not null. All endpoints respond with Content-Type: application/json
// and return 405 for unsupported methods. No external HTTP framework is
// used.
package api
