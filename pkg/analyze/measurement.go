package analyze

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/webunittest/swtest/pkg/swerr"
	"github.com/webunittest/swtest/pkg/testcase"
)

var csvFileName = regexp.MustCompile(`^test_(\d+)\.csv$`)

// Measurement is the CSV output of one test: a header naming the captured
// variables and one row per cycle.
type Measurement struct {
	Test   int
	Path   string
	Header []string
	Rows   [][]string
}

// Loads every test_NNN.csv file of a run directory, ordered by test number.
func Load(dir string) ([]Measurement, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading result directory %s: %v", swerr.ErrProjectAccess, dir, err)
	}

	measurements := make([]Measurement, 0)
	for _, entry := range entries {
		match := csvFileName.FindStringSubmatch(entry.Name())
		if entry.IsDir() || match == nil {
			continue
		}
		test, _ := strconv.Atoi(match[1])
		m, err := ReadMeasurement(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		m.Test = test
		measurements = append(measurements, m)
	}
	slices.SortFunc(measurements, func(a, b Measurement) int {
		return a.Test - b.Test
	})
	return measurements, nil
}

// Reads a single CSV file. An empty file has no header and no rows.
func ReadMeasurement(path string) (Measurement, error) {
	m := Measurement{Path: path}
	f, err := os.Open(path)
	if err != nil {
		return m, fmt.Errorf("%w: opening %s: %v", swerr.ErrProjectAccess, path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return m, fmt.Errorf("%w: reading %s: %v", swerr.ErrProjectAccess, path, err)
	}
	if len(records) == 0 {
		return m, nil
	}
	for _, name := range records[0] {
		m.Header = append(m.Header, strings.TrimSpace(name))
	}
	m.Rows = records[1:]
	return m, nil
}

// Returns the value of a variable in a 1-based row. testcase.LastRow reads
// the last row.
func (m Measurement) Value(variable string, row int) (string, error) {
	column := slices.Index(m.Header, variable)
	if column < 0 {
		return "", fmt.Errorf("%w: column %s is missing from %s", swerr.ErrPartialRow, variable, filepath.Base(m.Path))
	}
	if row == testcase.LastRow {
		row = len(m.Rows)
	}
	if row < 1 || row > len(m.Rows) {
		return "", fmt.Errorf("%w: row %d is out of range, %s has %d rows", swerr.ErrPartialRow, row, filepath.Base(m.Path), len(m.Rows))
	}
	record := m.Rows[row-1]
	if column >= len(record) {
		return "", fmt.Errorf("%w: row %d of %s has no %s field", swerr.ErrPartialRow, row, filepath.Base(m.Path), variable)
	}
	return strings.TrimSpace(record[column]), nil
}
