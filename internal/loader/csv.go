package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/primatelab/circadian/internal/types"
)

// Timestamp layouts accepted in CSV input, tried in order.
var csvTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// FromCSV reads readings from a CSV file with columns
// timestamp,temperature,subject. A header row is detected and skipped.
func FromCSV(path string) ([]types.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	var readings []types.Reading
	row := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		row++

		if len(record) < 2 {
			return nil, fmt.Errorf("%s row %d: expected timestamp,temperature[,subject], got %d columns", path, row, len(record))
		}
		if row == 1 && isHeader(record) {
			continue
		}

		ts, err := parseTimestamp(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		temp, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad temperature %q", path, row, record[1])
		}

		reading := types.Reading{Time: ts, Temperature: temp}
		if len(record) > 2 {
			reading.Subject = strings.TrimSpace(record[2])
		}
		readings = append(readings, reading)
	}

	return readings, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", s)
}

func isHeader(record []string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	return err != nil
}
