package cparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewImplementationFilter(t *testing.T) {
	filter := NewImplementationFilter([]string{"Motor_ctrl.c", "src/Motor_pwm.c", "main.c"}, []string{"Hal", " ", "main"})
	assert.Equal(t, []string{"Motor", "main", "Hal"}, filter.Prefixes)
}

func TestModulePrefix(t *testing.T) {
	assert.Equal(t, "Motor", ModulePrefix("Motor_ctrl.c"))
	assert.Equal(t, "sensor", ModulePrefix("lib/sensor.c"))
}

func TestImplementationFilterApply(t *testing.T) {
	filter := ImplementationFilter{Prefixes: []string{"Motor", "Hal"}}
	lines := []string{
		"static void Motor_step(void)",
		"{",
		"    Hal_write(1);",
		"    Trace_log(\"step\");",
		"    if (Sensor_ready()) {",
		"        step++;",
		"    }",
		"}",
		"static inline int Motor_abs(int v)",
	}

	expected := []string{
		"void Motor_step(void)",
		"{",
		"    Hal_write(1);",
		"    if (Sensor_ready()) {",
		"        step++;",
		"    }",
		"}",
		"static inline int Motor_abs(int v)",
	}
	assert.Equal(t, expected, filter.Apply(lines))
}
