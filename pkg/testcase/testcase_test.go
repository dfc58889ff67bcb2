package testcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webunittest/swtest/pkg/swerr"
)

func TestParseFunctions(t *testing.T) {
	assert.Equal(t, []string{"Motor_init();", "Motor_step(2);"}, ParseFunctions("Motor_init()\n\n  Motor_step(2);  "))
}

func TestParsePreconditions(t *testing.T) {
	text := "Test_3()\nreset\nMotor_reset();\nreset Sensor_read.c\nspeed = 4"
	expected := []Precondition{
		{Kind: PreconditionTest, Test: 3},
		{Kind: PreconditionReset},
		{Kind: PreconditionStatement, Statement: "Motor_reset();"},
		{Kind: PreconditionReset, File: "Sensor_read.c"},
		{Kind: PreconditionStatement, Statement: "speed = 4;"},
	}
	assert.Equal(t, expected, ParsePreconditions(text))
}

func TestParseInputs(t *testing.T) {
	inputs, err := ParseInputs("1~3) x = 5\n2) y = 1;\nz = 0", 3)
	require.NoError(t, err)
	expected := []Input{
		{Cycle: 1, Statement: "x = 5;"},
		{Cycle: 2, Statement: "x = 5;"},
		{Cycle: 3, Statement: "x = 5;"},
		{Cycle: 2, Statement: "y = 1;"},
		{Cycle: 0, Statement: "z = 0;"},
	}
	assert.Equal(t, expected, inputs)

	_, err = ParseInputs("3~1) x = 5", 3)
	assert.ErrorIs(t, err, swerr.ErrConfiguration)
}

func TestParseInputsRangeStopsAtLastCycle(t *testing.T) {
	inputs, err := ParseInputs("1~20000000) x = 1", 2)
	require.NoError(t, err)
	assert.Equal(t, []Input{{Cycle: 1, Statement: "x = 1;"}, {Cycle: 2, Statement: "x = 1;"}}, inputs)

	inputs, err = ParseInputs("2~9223372036854775807) x = 1", 1)
	require.NoError(t, err)
	assert.Empty(t, inputs)

	_, err = ParseInputs("1~99999999999999999999) x = 1", 1)
	assert.ErrorIs(t, err, swerr.ErrConfiguration)
}

func TestIsIndexed(t *testing.T) {
	assert.True(t, IsIndexed("1~3) x = 5"))
	assert.True(t, IsIndexed("x = f(1)"))
	assert.False(t, IsIndexed("x = 5"))
}

func TestParseExpectedFlat(t *testing.T) {
	expected, err := ParseExpected("speed = 3\ndir = 1;\nspeed = 3")
	require.NoError(t, err)
	assert.Equal(t, []string{"speed", "dir"}, expected.Variables)
	assert.Equal(t, []int{LastRow}, expected.Cycles)
	assert.Equal(t, []Expectation{{"speed", "3"}, {"dir", "1"}, {"speed", "3"}}, expected.ByCycle[LastRow])
	assert.Equal(t, 3, expected.Count())
}

func TestParseExpectedIndexed(t *testing.T) {
	expected, err := ParseExpected("1) y = 0\n2) y = 1\n3) y = 2\n3) z = 9")
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z"}, expected.Variables)
	assert.Equal(t, []int{1, 2, 3}, expected.Cycles)
	assert.Equal(t, []Expectation{{"y", "0"}}, expected.ByCycle[1])
	assert.Equal(t, []Expectation{{"y", "2"}, {"z", "9"}}, expected.ByCycle[3])
}

func TestParseExpectedMixed(t *testing.T) {
	expected, err := ParseExpected("1) y = 0\nz = 5\n2) y = 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z"}, expected.Variables)
	assert.Equal(t, []int{1, LastRow, 2}, expected.Cycles)
	assert.Equal(t, []Expectation{{"z", "5"}}, expected.ByCycle[LastRow])
	assert.Equal(t, []Expectation{{"y", "1"}}, expected.ByCycle[2])

	expected, err = ParseExpected("y = (3)")
	require.NoError(t, err)
	assert.Equal(t, []Expectation{{"y", "(3)"}}, expected.ByCycle[LastRow])
}

func TestParseExpectedHighCycleIsNotLastRow(t *testing.T) {
	expected, err := ParseExpected("255) y = 1\ny = 2")
	require.NoError(t, err)
	assert.Equal(t, []Expectation{{"y", "1"}}, expected.ByCycle[255])
	assert.Equal(t, []Expectation{{"y", "2"}}, expected.ByCycle[LastRow])
}

func TestParseExpectedInvalidLine(t *testing.T) {
	_, err := ParseExpected("no assignment here")
	assert.ErrorIs(t, err, swerr.ErrConfiguration)

	_, err = ParseExpected("1) y = 0\n0) y = 1")
	assert.ErrorIs(t, err, swerr.ErrConfiguration)
}

func TestDecode(t *testing.T) {
	row := Row{
		Number:       7,
		File:         "Motor_ctrl.c",
		Functions:    "Motor_step()",
		Cycle:        3,
		Precondition: "reset\nmode = IDLE",
		Input:        "1~3) arr[MAXLEN] = ON",
		Expected:     "1) speed = 0\n2) speed = 1\n3) speed = MAXLEN",
		Note:         "MAXLEN : 10\nIDLE : 2",
	}

	tc, err := Decode(row)
	require.NoError(t, err)
	assert.Equal(t, "007", tc.ID())
	assert.Equal(t, "Test_007", tc.FunctionName())
	assert.Equal(t, "test_007.csv", tc.CsvName())
	assert.Equal(t, []string{"Motor_step();"}, tc.Calls)
	assert.True(t, tc.Indexed)
	assert.Equal(t, Input{Cycle: 2, Statement: "arr[10] = 1;"}, tc.Inputs[1])
	assert.Equal(t, Precondition{Kind: PreconditionStatement, Statement: "mode = 2;"}, tc.Preconditions[1])
	assert.Equal(t, []Expectation{{"speed", "10"}}, tc.Expected.ByCycle[3])
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(Row{Number: 1, File: "a.c", Cycle: 0})
	assert.ErrorIs(t, err, swerr.ErrConfiguration)

	_, err = Decode(Row{Number: 1, Cycle: 1})
	assert.ErrorIs(t, err, swerr.ErrConfiguration)

	_, err = Decode(Row{Number: 1, File: "a.c", Cycle: 1, Expected: "1) y"})
	assert.ErrorIs(t, err, swerr.ErrConfiguration)
	assert.Contains(t, err.Error(), "test 001")
}
