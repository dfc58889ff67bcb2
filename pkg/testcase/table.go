package testcase

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/webunittest/swtest/pkg/swerr"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Row is one raw row of the test table, before decoding.
type Row struct {
	Number       int    `yaml:"test"`
	Description  string `yaml:"description"`
	File         string `yaml:"file"`
	Functions    string `yaml:"function"`
	Cycle        int    `yaml:"cycle"`
	Precondition string `yaml:"precondition"`
	Input        string `yaml:"input"`
	Expected     string `yaml:"expected"`
	Note         string `yaml:"note"`
}

type column int

const (
	columnNumber column = iota
	columnDescription
	columnFile
	columnFunction
	columnCycle
	columnPrecondition
	columnInput
	columnExpected
	columnNote
)

var columnNames = map[column]string{
	columnNumber:       "test",
	columnDescription:  "description",
	columnFile:         "file",
	columnFunction:     "function",
	columnCycle:        "cycle",
	columnPrecondition: "precondition",
	columnInput:        "input",
	columnExpected:     "expected",
	columnNote:         "note",
}

// Header spellings accepted for each column, compared lower-case and without any
// parenthesized suffix, so "Expected(기대값)" reads as "expected".
var columnAliases = map[string]column{
	"test":            columnNumber,
	"test no":         columnNumber,
	"test_no":         columnNumber,
	"test_num":        columnNumber,
	"test number":     columnNumber,
	"description":     columnDescription,
	"title":           columnDescription,
	"name":            columnDescription,
	"file":            columnFile,
	"target":          columnFile,
	"target file":     columnFile,
	"c file":          columnFile,
	"function":        columnFunction,
	"functions":       columnFunction,
	"funcs":           columnFunction,
	"cycle":           columnCycle,
	"cycles":          columnCycle,
	"precondition":    columnPrecondition,
	"pre-condition":   columnPrecondition,
	"pre condition":   columnPrecondition,
	"input":           columnInput,
	"inputs":          columnInput,
	"expected":        columnExpected,
	"expected output": columnExpected,
	"expect":          columnExpected,
	"note":            columnNote,
	"notes":           columnNote,
	"definition":      columnNote,
	"definitions":     columnNote,
}

// Columns that every table must have, in table order.
var requiredColumns = []column{
	columnNumber,
	columnFile,
	columnFunction,
	columnCycle,
	columnPrecondition,
	columnInput,
	columnExpected,
	columnNote,
}

// Loads the test table from an .xlsx workbook (active sheet, first row is the
// header) or a YAML list of rows.
func LoadTable(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadWorkbook(path)
	case ".yaml", ".yml":
		return loadYaml(path)
	default:
		return nil, fmt.Errorf("%w: unsupported test table format %s", swerr.ErrConfiguration, path)
	}
}

func loadYaml(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading test table %s: %v", swerr.ErrConfiguration, path, err)
	}
	rows := make([]Row, 0)
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: parsing test table %s: %v", swerr.ErrConfiguration, path, err)
	}
	return rows, nil
}

func loadWorkbook(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening test table %s: %v", swerr.ErrConfiguration, path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q of %s: %v", swerr.ErrConfiguration, sheet, path, err)
	}
	return ParseCells(cells)
}

// Converts spreadsheet cells into rows. The first row is the header; blank rows
// are skipped.
func ParseCells(cells [][]string) ([]Row, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: test table is empty", swerr.ErrConfiguration)
	}
	positions, err := headerPositions(cells[0])
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(cells)-1)
	for i, record := range cells[1:] {
		if isBlank(record) {
			continue
		}
		cell := func(c column) string {
			position, ok := positions[c]
			if !ok || position >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[position])
		}

		line := i + 2
		number, err := parseInteger(cell(columnNumber))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: invalid test number %q", swerr.ErrConfiguration, line, cell(columnNumber))
		}
		cycle, err := parseInteger(cell(columnCycle))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: invalid cycle %q", swerr.ErrConfiguration, line, cell(columnCycle))
		}
		rows = append(rows, Row{
			Number:       number,
			Description:  cell(columnDescription),
			File:         cell(columnFile),
			Functions:    cell(columnFunction),
			Cycle:        cycle,
			Precondition: cell(columnPrecondition),
			Input:        cell(columnInput),
			Expected:     cell(columnExpected),
			Note:         cell(columnNote),
		})
	}
	return rows, nil
}

func headerPositions(header []string) (map[column]int, error) {
	positions := make(map[column]int)
	for i, title := range header {
		if c, ok := columnAliases[normalizeTitle(title)]; ok {
			if _, taken := positions[c]; !taken {
				positions[c] = i
			}
		}
	}

	missing := make([]string, 0)
	for _, c := range requiredColumns {
		if _, ok := positions[c]; !ok {
			missing = append(missing, columnNames[c])
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: test table is missing columns: %s", swerr.ErrConfiguration, strings.Join(missing, ", "))
	}
	return positions, nil
}

func normalizeTitle(title string) string {
	if i := strings.Index(title, "("); i >= 0 {
		title = title[:i]
	}
	return strings.ToLower(strings.TrimSpace(title))
}

// Parses an integer cell. Workbooks may store whole numbers as "3" or "3.0".
func parseInteger(text string) (int, error) {
	if value, err := strconv.Atoi(text); err == nil {
		return value, nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || value != math.Trunc(value) {
		return 0, fmt.Errorf("not an integer: %q", text)
	}
	return int(value), nil
}

func isBlank(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// Maps each test number to its 1-based sheet row. Only the test number column
// is required.
func RowsByTest(cells [][]string) (map[int]int, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: test table is empty", swerr.ErrConfiguration)
	}
	position := -1
	for i, title := range cells[0] {
		if c, ok := columnAliases[normalizeTitle(title)]; ok && c == columnNumber {
			position = i
			break
		}
	}
	if position < 0 {
		return nil, fmt.Errorf("%w: test table is missing columns: %s", swerr.ErrConfiguration, columnNames[columnNumber])
	}

	rows := make(map[int]int)
	for i, record := range cells[1:] {
		if position >= len(record) {
			continue
		}
		if number, err := parseInteger(strings.TrimSpace(record[position])); err == nil {
			rows[number] = i + 2
		}
	}
	return rows, nil
}
