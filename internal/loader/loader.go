// Package loader reads the cleaned body-temperature readings table from its
// serialized form. Readings are produced by an external cleaning stage; the
// loader consumes them read-only and rejects series that violate the
// pipeline's preconditions (empty input, out-of-order timestamps).
package loader

import (
	"errors"
	"fmt"

	"github.com/primatelab/circadian/internal/types"
)

// ErrEmptySeries is returned when a source contains no readings. This is a
// precondition violation; the pipeline halts rather than recovering.
var ErrEmptySeries = errors.New("loader: empty reading series")

// Load reads readings from the named source. Format selects the backend:
// "csv", "sqlite", or "postgres" (for which path is a connection string).
// Subject filters database sources; CSV files are assumed single-subject.
func Load(format, path, subject string) ([]types.Reading, error) {
	var readings []types.Reading
	var err error

	switch format {
	case "csv":
		readings, err = FromCSV(path)
	case "sqlite":
		readings, err = FromSQLite(path, subject)
	case "postgres":
		readings, err = FromPostgres(path, subject)
	default:
		return nil, fmt.Errorf("loader: unknown input format %q", format)
	}
	if err != nil {
		return nil, err
	}

	return readings, validate(readings)
}

// validate enforces the loader's preconditions: at least one reading and
// strictly ascending timestamps.
func validate(readings []types.Reading) error {
	if len(readings) == 0 {
		return ErrEmptySeries
	}
	for i := 1; i < len(readings); i++ {
		if !readings[i].Time.After(readings[i-1].Time) {
			return fmt.Errorf("loader: readings out of order at row %d (%s then %s)",
				i, readings[i-1].Time.Format("2006-01-02 15:04:05"),
				readings[i].Time.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}
