package record

// Header is the CSV header row of the backing file, in column order.
// It matches the layout of existing data files, so they load unchanged.
var Header = []string{"Rollno", "name", "english", "maths", "science"}

// Record is one student's stored data. RollNo is the unique key; it is an
// opaque identifier and not guaranteed to be numeric. The three score
// fields hold raw text that may or may not parse as numbers — the average
// worker decides.
type Record struct {
	RollNo  string `json:"rollno"`
	Name    string `json:"name"`
	English string `json:"english"`
	Maths   string `json:"maths"`
	Science string `json:"science"`
}

// row returns the record as a CSV row in Header order.
func (r Record) row() []string {
	return []string{r.RollNo, r.Name, r.English, r.Maths, r.Science}
}

// fromRow builds a Record from a CSV row in Header order.
func fromRow(row []string) Record {
	rec := Record{}
	if len(row) > 0 {
		rec.RollNo = row[0]
	}
	if len(row) > 1 {
		rec.Name = row[1]
	}
	if len(row) > 2 {
		rec.English = row[2]
	}
	if len(row) > 3 {
		rec.Maths = row[3]
	}
	if len(row) > 4 {
		rec.Science = row[4]
	}
	return rec
}
