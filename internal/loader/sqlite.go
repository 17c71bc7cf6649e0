package loader

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/primatelab/circadian/internal/types"
)

// FromSQLite reads readings from the `readings` table of a SQLite database.
// An empty subject loads every row.
func FromSQLite(path, subject string) ([]types.Reading, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %s: %w", path, err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging sqlite database %s: %w", path, err)
	}

	query := `SELECT time, temperature, subject FROM readings ORDER BY time`
	args := []interface{}{}
	if subject != "" {
		query = `SELECT time, temperature, subject FROM readings WHERE subject = ? ORDER BY time`
		args = append(args, subject)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	return scanReadings(rows)
}

func scanReadings(rows *sql.Rows) ([]types.Reading, error) {
	var readings []types.Reading
	for rows.Next() {
		var r types.Reading
		var ts string
		if err := rows.Scan(&ts, &r.Temperature, &r.Subject); err != nil {
			return nil, fmt.Errorf("scanning reading row: %w", err)
		}
		t, err := parseTimestamp(ts)
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		r.Time = t
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating readings: %w", err)
	}
	return readings, nil
}
