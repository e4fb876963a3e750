package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigurationDefaults(t *testing.T) {
	t.Setenv("PLC_PROBE_INTERVAL_MS", "10000")

	cfg, err := LoadConfiguration()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "mock", cfg.Inference.Mode)
	assert.Equal(t, 2000, cfg.Plc.ProbeIntervalMs, "probe interval is capped at the UI polling cadence")
}

func TestValidateRejectsBrokenStartupConfig(t *testing.T) {
	base := func() *AppConfig {
		return &AppConfig{
			Database:  DatabaseConfig{Driver: "sqlite"},
			Camera:    CameraConfig{Driver: "synthetic"},
			Inference: InferenceConfig{Mode: "mock", Trigger: "off"},
			Plc:       PlcConfig{Port: 5000},
		}
	}

	require.NoError(t, base().Validate())

	cases := map[string]func(c *AppConfig){
		"unknown db driver":     func(c *AppConfig) { c.Database.Driver = "mysql" },
		"live without model":    func(c *AppConfig) { c.Inference.Mode = "live" },
		"unknown trigger":       func(c *AppConfig) { c.Inference.Trigger = "edge" },
		"directory w/o source":  func(c *AppConfig) { c.Camera.Driver = "directory" },
		"inverted thresholds":   func(c *AppConfig) { c.Inference.SeverityLow, c.Inference.SeverityMedium = 0.2, 0.1 },
		"negative mock defects": func(c *AppConfig) { c.Inference.MockMaxDefects = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestDefaultMachineProfile(t *testing.T) {
	p, err := LoadMachineProfile(&AppConfig{})
	require.NoError(t, err)

	assert.Equal(t, "M5", p.Coils.Scan)
	assert.Equal(t, "M4", p.Coils.Grid)
	assert.Equal(t, "M120", p.Coils.Reset)
	assert.Equal(t, "X6", p.Coils.Homing)
	assert.Equal(t, "Y1", p.Coils.Light)
	assert.Equal(t, 8, p.Plc.XYRadix)
	assert.Equal(t, "M500", p.Servo.Commands["y_back_12.5"])
	assert.Equal(t, "D2", p.Servo.SpeedRegisters.X)
	assert.Equal(t, 0.01, p.Inference.Severity.LowBelow)
	assert.Equal(t, 0.05, p.Inference.Severity.MediumBelow)
	assert.Len(t, p.Inference.Classes, 3)
}

func TestSeverityOverridesFromEnv(t *testing.T) {
	p, err := LoadMachineProfile(&AppConfig{Inference: InferenceConfig{SeverityLow: 0.02, SeverityMedium: 0.1}})
	require.NoError(t, err)
	assert.Equal(t, 0.02, p.Inference.Severity.LowBelow)
	assert.Equal(t, 0.1, p.Inference.Severity.MediumBelow)
}

func TestProfileFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q-series.yaml")
	data := []byte(`
name: q-series
plc:
  xy_radix: 16
coils: {scan: M10, grid: M11, reset: M12, homing: M13, light: Y1F, servo_enable: M0}
servo:
  speed_registers: {x: D100, y: D102, z: D104}
  commands: {x_home: M300}
inference:
  classes:
    - {id: 1, name: Dust, color: [255, 0, 0]}
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	p, err := LoadMachineProfile(&AppConfig{ProfilePath: path})
	require.NoError(t, err)
	assert.Equal(t, 16, p.Plc.XYRadix)
	assert.Equal(t, "D0", p.Plc.ProbeRegister)
	assert.Equal(t, 4000, p.Servo.PulseMs)
	assert.Equal(t, 0.5, p.Inference.OverlayAlpha)
}

func TestProfileValidation(t *testing.T) {
	_, err := ParseMachineProfile([]byte(`plc: {xy_radix: 7}`))
	assert.Error(t, err)

	_, err = ParseMachineProfile([]byte(`
coils: {scan: M5, grid: M4, reset: M120, homing: X6, light: Y1, servo_enable: M0}
servo:
  speed_registers: {x: D2, y: D0, z: D4}
  commands: {x_home: M300}
inference:
  classes:
    - {id: 1, name: Dust, color: [255, 0]}
`))
	assert.Error(t, err)
}
