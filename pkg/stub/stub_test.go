package stub

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webunittest/swtest/pkg/options"
	"github.com/webunittest/swtest/pkg/swerr"
)

const motorSource = `#include "Motor_ctrl.h"
static int counter;
static uint8_t history[4];
TRACE_DECLARE(motor);

static void Motor_step(void)
{
    TRACE("step");
    Log_write(1);
    counter++;
}
`

const motorHeader = `#ifndef MOTOR_CTRL_H
#define MOTOR_CTRL_H
void Motor_step(void);
#endif`

const sensorSource = `#include "Sensor_read.h"
static int raw;
int Sensor_read(void)
{
    TRACE("read");
    return raw;
}
`

func writeProject(t *testing.T) string {
	root := filepath.Join(t.TempDir(), "project")
	files := map[string]string{
		"src/Motor_ctrl.c":  motorSource,
		"inc/Motor_ctrl.h":  motorHeader,
		"lib/Sensor_read.c": sensorSource,
		"lib/Sensor_read.h": "int Sensor_read(void);\n",
		"other/unused.c":    "int unused;\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newTestOrchestrator(project, stubPath string) *Orchestrator {
	o := NewOrchestrator(Config{
		ProjectPath: project,
		StubPath:    stubPath,
		SourceFiles: []string{"Motor_ctrl.c", "Sensor_read.c"},
		StubFiles:   []string{"Motor_ctrl.c"},
		Options: options.CompileOptions{
			Delete: []string{"TRACE"},
			Define: []string{"UNIT_TEST 1"},
		},
	})
	o.Logger = zerolog.Nop()
	return o
}

func readFile(t *testing.T, path string) string {
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestOrchestratorRun(t *testing.T) {
	project := writeProject(t)
	stubPath := filepath.Join(t.TempDir(), "stub")

	result, err := newTestOrchestrator(project, stubPath).Run()
	require.NoError(t, err)

	entries, err := os.ReadDir(stubPath)
	require.NoError(t, err)
	names := make([]string, 0)
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.ElementsMatch(t, []string{"Motor_ctrl.c", "Motor_ctrl.h", "Sensor_read.c", "Sensor_read.h"}, names)

	expectedMotor := `#define UNIT_TEST 1
#include "Motor_ctrl.h"
int counter;
uint8_t history[4];

void Motor_step(void)
{
    counter++;
}
`
	assert.Equal(t, expectedMotor, readFile(t, filepath.Join(stubPath, "Motor_ctrl.c")))

	expectedHeader := motorHeader + "\nextern int counter;\nextern uint8_t history[4];\n"
	assert.Equal(t, expectedHeader, readFile(t, filepath.Join(stubPath, "Motor_ctrl.h")))

	expectedSensor := "#include \"Sensor_read.h\"\nstatic int raw;\nint Sensor_read(void)\n{\n    return raw;\n}\n"
	assert.Equal(t, expectedSensor, readFile(t, filepath.Join(stubPath, "Sensor_read.c")))

	resets, ok := result.Resets.Lookup("src/Motor_ctrl.c")
	assert.True(t, ok)
	assert.Equal(t, []string{"counter = 0;", "history = {0};"}, resets)
	_, ok = result.Resets.Lookup("Sensor_read.c")
	assert.False(t, ok)
	assert.Equal(t, []string{"Motor_ctrl.h", "Sensor_read.h"}, result.Includes())

	// The project itself is untouched.
	assert.Equal(t, motorSource, readFile(t, filepath.Join(project, "src/Motor_ctrl.c")))
}

func TestOrchestratorRunIsIdempotent(t *testing.T) {
	project := writeProject(t)
	stubPath := filepath.Join(t.TempDir(), "stub")

	_, err := newTestOrchestrator(project, stubPath).Run()
	require.NoError(t, err)
	first := map[string]string{}
	for _, name := range []string{"Motor_ctrl.c", "Motor_ctrl.h", "Sensor_read.c", "Sensor_read.h"} {
		first[name] = readFile(t, filepath.Join(stubPath, name))
	}

	_, err = newTestOrchestrator(project, stubPath).Run()
	require.NoError(t, err)
	for name, content := range first {
		assert.Equal(t, content, readFile(t, filepath.Join(stubPath, name)), name)
	}
}

func TestOrchestratorCreatesMissingHeader(t *testing.T) {
	project := filepath.Join(t.TempDir(), "project")
	require.NoError(t, os.MkdirAll(project, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "Pump_ctrl.c"), []byte("static int level;\n"), 0o644))
	stubPath := filepath.Join(t.TempDir(), "stub")

	o := NewOrchestrator(Config{ProjectPath: project, StubPath: stubPath, SourceFiles: []string{"Pump_ctrl.c"}})
	o.Logger = zerolog.Nop()
	_, err := o.Run()
	require.NoError(t, err)

	assert.Equal(t, "extern int level;\n", readFile(t, filepath.Join(stubPath, "Pump_ctrl.h")))
}

func TestOrchestratorErrors(t *testing.T) {
	project := writeProject(t)

	missingProject := newTestOrchestrator(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "stub"))
	_, err := missingProject.Run()
	assert.ErrorIs(t, err, swerr.ErrMissingProjectPath)
	assert.ErrorIs(t, err, swerr.ErrProjectAccess)

	missingSource := newTestOrchestrator(project, filepath.Join(t.TempDir(), "stub"))
	missingSource.SourceFiles = append(missingSource.SourceFiles, "Pump_ctrl.c")
	_, err = missingSource.Run()
	assert.ErrorIs(t, err, swerr.ErrProjectAccess)
	assert.Contains(t, err.Error(), "Pump_ctrl.c")

	stubAroundProject := newTestOrchestrator(project, filepath.Dir(project))
	_, err = stubAroundProject.Run()
	assert.ErrorIs(t, err, swerr.ErrConfiguration)
}
