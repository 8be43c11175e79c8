// Package record defines the student Record model and the CSV-backed Store.
//
// The store keeps the durable record set in a single CSV file with the
// header row "Rollno,name,english,maths,science". Every mutation loads the
// full set, computes the new set, and rewrites the file atomically (temp
// file + rename). Keys (roll numbers) are unique: Upsert replaces any
// existing row with the same RollNo rather than appending a duplicate.
//
// Score fields stay raw text at this boundary. Parsing and validation are
// the average worker's job, not the store's.
package record
