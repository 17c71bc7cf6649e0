package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "readings.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, `timestamp,temperature,subject
2019-07-01 00:00:00,36.81,Callie
2019-07-01 00:05:00,36.84,Callie
2019-07-01 00:10:00,36.79,Callie
`)

	readings, err := Load("csv", path, "")
	require.NoError(t, err)
	require.Len(t, readings, 3)

	assert.Equal(t, 36.81, readings[0].Temperature)
	assert.Equal(t, "Callie", readings[0].Subject)
	assert.Equal(t, 2019, readings[0].Time.Year())
	assert.Equal(t, 5, readings[1].Time.Minute())
}

func TestLoadCSVWithoutHeader(t *testing.T) {
	path := writeCSV(t, "2019-07-01 00:00:00,36.81,Callie\n2019-07-01 00:05:00,36.84,Callie\n")

	readings, err := Load("csv", path, "")
	require.NoError(t, err)
	assert.Len(t, readings, 2)
}

func TestLoadEmptySeriesIsPreconditionViolation(t *testing.T) {
	path := writeCSV(t, "timestamp,temperature,subject\n")

	_, err := Load("csv", path, "")
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestLoadRejectsOutOfOrderReadings(t *testing.T) {
	path := writeCSV(t, "2019-07-01 00:05:00,36.84,Callie\n2019-07-01 00:00:00,36.81,Callie\n")

	_, err := Load("csv", path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of order")
}

func TestLoadRejectsMalformedRow(t *testing.T) {
	path := writeCSV(t, "2019-07-01 00:00:00,36.81,Callie\n2019-07-01 00:05:00,not-a-number,Callie\n")

	_, err := Load("csv", path, "")
	assert.Error(t, err)
}

func TestLoadUnknownFormat(t *testing.T) {
	_, err := Load("parquet", "whatever", "")
	assert.Error(t, err)
}
