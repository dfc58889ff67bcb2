package testcase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webunittest/swtest/pkg/swerr"
	"github.com/xuri/excelize/v2"
)

var tableHeader = []string{"No", "Test", "Description", "File", "Function", "Cycle", "Precondition(사전조건)", "Input", "Expected(기대값)", "Note"}

func TestParseCells(t *testing.T) {
	cells := [][]string{
		tableHeader,
		{"0", "1", "init", "Motor_ctrl.c", "Motor_init()", "1", "", "speed = 0", "speed = 0", ""},
		{},
		{"1", "2.0", "step", "Motor_ctrl.c", "Motor_step()", "3", "Test_1()", "1~3) x = 5", "3) speed = 3"},
	}

	rows, err := ParseCells(cells)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{
		Number:      1,
		Description: "init",
		File:        "Motor_ctrl.c",
		Functions:   "Motor_init()",
		Cycle:       1,
		Input:       "speed = 0",
		Expected:    "speed = 0",
	}, rows[0])
	assert.Equal(t, 2, rows[1].Number)
	assert.Equal(t, "Test_1()", rows[1].Precondition)
	assert.Equal(t, "", rows[1].Note)
}

func TestParseCellsMissingColumns(t *testing.T) {
	_, err := ParseCells([][]string{{"Test", "File", "Cycle"}})
	assert.ErrorIs(t, err, swerr.ErrConfiguration)
	assert.Contains(t, err.Error(), "function, precondition, input, expected, note")

	_, err = ParseCells(nil)
	assert.ErrorIs(t, err, swerr.ErrConfiguration)
}

func TestParseCellsInvalidCycle(t *testing.T) {
	cells := [][]string{
		tableHeader,
		{"0", "1", "", "a.c", "f()", "1.5", "", "", "", ""},
	}
	_, err := ParseCells(cells)
	assert.ErrorIs(t, err, swerr.ErrConfiguration)
}

func TestLoadTableWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SW_TestCase.xlsx")
	f := excelize.NewFile()
	header := make([]interface{}, 0, len(tableHeader))
	for _, title := range tableHeader {
		header = append(header, title)
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{0, 1, "init", "Motor_ctrl.c", "Motor_init()\nMotor_step()", 2, "reset", "", "speed = 1", "GAIN : 2"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := LoadTable(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Motor_init()\nMotor_step()", rows[0].Functions)
	assert.Equal(t, 2, rows[0].Cycle)
	assert.Equal(t, "GAIN : 2", rows[0].Note)
}

func TestLoadTableYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tests.yaml")
	content := `- test: 1
  file: Motor_ctrl.c
  function: |
    Motor_init()
  cycle: 1
  expected: speed = 0
- test: 2
  file: Motor_ctrl.c
  function: Motor_step()
  cycle: 2
  precondition: Test_1()
  input: 1~2) gain = 3
  expected: |
    1) speed = 3
    2) speed = 6
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := LoadTable(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Motor_init()\n", rows[0].Functions)
	assert.Equal(t, "1) speed = 3\n2) speed = 6\n", rows[1].Expected)
}

func TestLoadTableUnsupported(t *testing.T) {
	_, err := LoadTable("tests.txt")
	assert.ErrorIs(t, err, swerr.ErrConfiguration)
}
