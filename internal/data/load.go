package data

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

var ErrEmptyDataset = errors.New("dataset has no rows")

// LoadCSV reads a two-column dataset: the feature in the first column, the target in the second.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()
	ds, err := ReadCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read dataset %s", path)
	}
	return ds, nil
}

func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse csv")
	}
	if len(rows) < 2 {
		return nil, ErrEmptyDataset
	}
	hdr := rows[0]
	if len(hdr) < 2 {
		return nil, errors.Newf("expected at least 2 columns, header has %d", len(hdr))
	}
	ds := &Dataset{
		XName:   strings.TrimSpace(hdr[0]),
		YName:   strings.TrimSpace(hdr[1]),
		Samples: make([]Sample, 0, len(rows)-1),
	}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		x, err := parseCell(row[0])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d column %q", i+1, ds.XName)
		}
		y, err := parseCell(row[1])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d column %q", i+1, ds.YName)
		}
		ds.Samples = append(ds.Samples, Sample{X: x, Y: y})
	}
	return ds, nil
}

func parseCell(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Newf("non-finite value %q", s)
	}
	return v, nil
}
