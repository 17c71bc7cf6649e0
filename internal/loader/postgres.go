package loader

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/primatelab/circadian/internal/types"
)

// FromPostgres reads readings from the `readings` table of a PostgreSQL
// database. connStr is a lib/pq connection string.
func FromPostgres(connStr, subject string) ([]types.Reading, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	query := `SELECT time, temperature, subject FROM readings ORDER BY time`
	args := []interface{}{}
	if subject != "" {
		query = `SELECT time, temperature, subject FROM readings WHERE subject = $1 ORDER BY time`
		args = append(args, subject)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	var readings []types.Reading
	for rows.Next() {
		var r types.Reading
		if err := rows.Scan(&r.Time, &r.Temperature, &r.Subject); err != nil {
			return nil, fmt.Errorf("scanning reading row: %w", err)
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating readings: %w", err)
	}
	return readings, nil
}
