package points

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// Record is one row of an extracted point table: a species/group label and
// the two predictor values at that location. Coordinates are pointers so
// that blank cells unmarshal to nil and can be dropped as missing.
type Record struct {
	Species string   `csv:"species"`
	X       *float64 `csv:"x"`
	Y       *float64 `csv:"y"`
}

// ReadRecords loads a point table from a CSV file with a
// species,x,y header.
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening point table: %w", err)
	}
	defer f.Close()

	var records []Record
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parsing point table %s: %w", path, err)
	}
	return records, nil
}

// SetFromRecords builds a Set from the rows whose species column matches
// label. A label matching no rows is caller misuse and fails with
// InvalidInputError rather than silently analyzing the wrong sample.
func SetFromRecords(records []Record, label, dimX, dimY string) (*Set, error) {
	xs := make([]*float64, 0, len(records))
	ys := make([]*float64, 0, len(records))
	for _, r := range records {
		if r.Species != label {
			continue
		}
		xs = append(xs, r.X)
		ys = append(ys, r.Y)
	}

	if len(xs) == 0 {
		return nil, invalidf("no rows in point table match species %q", label)
	}

	return NewSet(label, dimX, dimY, xs, ys)
}

// BackgroundFromRecords builds a species' background Set. Rows matching
// label are preferred; when the table carries no rows for the label, all
// rows are used, so a single shared background table without per-species
// labels serves every species.
func BackgroundFromRecords(records []Record, label, dimX, dimY string) (*Set, error) {
	xs := make([]*float64, 0, len(records))
	ys := make([]*float64, 0, len(records))
	for _, r := range records {
		if r.Species != label {
			continue
		}
		xs = append(xs, r.X)
		ys = append(ys, r.Y)
	}

	if len(xs) == 0 {
		for _, r := range records {
			xs = append(xs, r.X)
			ys = append(ys, r.Y)
		}
	}

	return NewSet(label, dimX, dimY, xs, ys)
}

// SetFromAllRecords builds a Set from every row regardless of species
// column, for use as the shared environmental extent.
func SetFromAllRecords(records []Record, label, dimX, dimY string) (*Set, error) {
	xs := make([]*float64, 0, len(records))
	ys := make([]*float64, 0, len(records))
	for _, r := range records {
		xs = append(xs, r.X)
		ys = append(ys, r.Y)
	}
	return NewSet(label, dimX, dimY, xs, ys)
}
