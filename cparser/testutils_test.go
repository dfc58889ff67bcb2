package cparser

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testDataDir         = "testdata"
	testInputFileName   = "input.c"
	testStubbedFileName = "stubbed.c"
	testExternsFileName = "externs.h"
	testResetsFileName  = "resets.yml"
)

// Get all test cases in the testdata directory.
// Each test case is a directory with the following files:
// - input.c: The source file to stub.
// - stubbed.c: The expected stubbed source file.
// - externs.h: The expected extern declarations, one per line.
// - resets.yml: The expected variable reset statements.
func getTestCases(t *testing.T) []string {
	entries, err := os.ReadDir(testDataDir)
	assert.NoError(t, err)
	testCases := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			testCases = append(testCases, entry.Name())
		}
	}
	return testCases
}
