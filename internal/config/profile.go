package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed machine.yaml
var defaultProfile []byte

// MachineProfile описывает раскладку памяти ПЛК и параметры конкретного станка
type MachineProfile struct {
	Name      string           `yaml:"name"`
	Plc       PlcProfile       `yaml:"plc"`
	Coils     CoilMap          `yaml:"coils"`
	Servo     ServoProfile     `yaml:"servo"`
	Homing    TimeoutProfile   `yaml:"homing"`
	Grid      TimeoutProfile   `yaml:"grid"`
	Inference InferenceProfile `yaml:"inference"`
}

type PlcProfile struct {
	XYRadix       int    `yaml:"xy_radix"`
	ProbeRegister string `yaml:"probe_register"`
}

// CoilMap связывает операции сканирования с битами ПЛК
type CoilMap struct {
	Scan        string `yaml:"scan"`
	Grid        string `yaml:"grid"`
	Reset       string `yaml:"reset"`
	Homing      string `yaml:"homing"`
	HomingDone  string `yaml:"homing_done"`
	Light       string `yaml:"light"`
	ServoEnable string `yaml:"servo_enable"`
}

type ServoProfile struct {
	PulseMs        int               `yaml:"pulse_ms"`
	MaxSpeed       int               `yaml:"max_speed"`
	SpeedRegisters AxisRegisters     `yaml:"speed_registers"`
	Commands       map[string]string `yaml:"commands"`
}

type AxisRegisters struct {
	X string `yaml:"x"`
	Y string `yaml:"y"`
	Z string `yaml:"z"`
}

type TimeoutProfile struct {
	TimeoutMs int `yaml:"timeout_ms"`
}

type InferenceProfile struct {
	TriggerDevice string           `yaml:"trigger_device"`
	OverlayAlpha  float64          `yaml:"overlay_alpha"`
	Severity      SeverityProfile  `yaml:"severity"`
	Classes       []DefectClassDef `yaml:"classes"`
}

// SeverityProfile: low если ratio < LowBelow, medium если < MediumBelow, иначе high
type SeverityProfile struct {
	LowBelow    float64 `yaml:"low_below"`
	MediumBelow float64 `yaml:"medium_below"`
}

type DefectClassDef struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Color []int  `yaml:"color"`
}

func (p *MachineProfile) PulseDuration() time.Duration {
	return time.Duration(p.Servo.PulseMs) * time.Millisecond
}

func (p *MachineProfile) HomingTimeout() time.Duration {
	return time.Duration(p.Homing.TimeoutMs) * time.Millisecond
}

func (p *MachineProfile) GridTimeout() time.Duration {
	return time.Duration(p.Grid.TimeoutMs) * time.Millisecond
}

// LoadMachineProfile читает профиль из MACHINE_PROFILE или встроенный по умолчанию
func LoadMachineProfile(cfg *AppConfig) (*MachineProfile, error) {
	data := defaultProfile
	if cfg.ProfilePath != "" {
		raw, err := os.ReadFile(cfg.ProfilePath)
		if err != nil {
			return nil, fmt.Errorf("не удалось прочитать профиль станка '%s': %w", cfg.ProfilePath, err)
		}
		data = raw
	}

	profile, err := ParseMachineProfile(data)
	if err != nil {
		return nil, err
	}

	if cfg.Inference.SeverityLow > 0 {
		profile.Inference.Severity.LowBelow = cfg.Inference.SeverityLow
	}
	if cfg.Inference.SeverityMedium > 0 {
		profile.Inference.Severity.MediumBelow = cfg.Inference.SeverityMedium
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// ParseMachineProfile разбирает YAML и подставляет значения по умолчанию
func ParseMachineProfile(data []byte) (*MachineProfile, error) {
	var profile MachineProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("ошибка разбора профиля станка: %w", err)
	}
	profile.applyDefaults()
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *MachineProfile) applyDefaults() {
	if p.Plc.XYRadix == 0 {
		p.Plc.XYRadix = 8
	}
	if p.Plc.ProbeRegister == "" {
		p.Plc.ProbeRegister = "D0"
	}
	if p.Servo.PulseMs == 0 {
		p.Servo.PulseMs = 4000
	}
	if p.Servo.MaxSpeed == 0 {
		p.Servo.MaxSpeed = 50000
	}
	if p.Homing.TimeoutMs == 0 {
		p.Homing.TimeoutMs = 15000
	}
	if p.Grid.TimeoutMs == 0 {
		p.Grid.TimeoutMs = 10000
	}
	if p.Inference.OverlayAlpha == 0 {
		p.Inference.OverlayAlpha = 0.5
	}
	if p.Inference.Severity.LowBelow == 0 {
		p.Inference.Severity.LowBelow = 0.01
	}
	if p.Inference.Severity.MediumBelow == 0 {
		p.Inference.Severity.MediumBelow = 0.05
	}
}

// Validate проверяет согласованность профиля
func (p *MachineProfile) Validate() error {
	switch p.Plc.XYRadix {
	case 8, 10, 16:
	default:
		return fmt.Errorf("xy_radix должен быть 8, 10 или 16, получено %d", p.Plc.XYRadix)
	}
	required := map[string]string{
		"coils.scan":         p.Coils.Scan,
		"coils.grid":         p.Coils.Grid,
		"coils.reset":        p.Coils.Reset,
		"coils.homing":       p.Coils.Homing,
		"coils.light":        p.Coils.Light,
		"coils.servo_enable": p.Coils.ServoEnable,
		"speed_registers.x":  p.Servo.SpeedRegisters.X,
		"speed_registers.y":  p.Servo.SpeedRegisters.Y,
		"speed_registers.z":  p.Servo.SpeedRegisters.Z,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("в профиле станка не задан %s", key)
		}
	}
	if len(p.Servo.Commands) == 0 {
		return fmt.Errorf("в профиле станка нет команд перемещения")
	}
	s := p.Inference.Severity
	if s.LowBelow <= 0 || s.MediumBelow <= s.LowBelow {
		return fmt.Errorf("пороги критичности должны удовлетворять 0 < low_below < medium_below (%v, %v)", s.LowBelow, s.MediumBelow)
	}
	if p.Inference.OverlayAlpha < 0 || p.Inference.OverlayAlpha > 1 {
		return fmt.Errorf("overlay_alpha должен быть в диапазоне 0..1")
	}
	if len(p.Inference.Classes) == 0 {
		return fmt.Errorf("в профиле станка не заданы классы дефектов")
	}
	seen := make(map[int]bool)
	for _, c := range p.Inference.Classes {
		if c.ID < 1 || c.ID > 255 {
			return fmt.Errorf("id класса '%s' вне диапазона 1..255", c.Name)
		}
		if seen[c.ID] {
			return fmt.Errorf("id класса %d повторяется", c.ID)
		}
		seen[c.ID] = true
		if len(c.Color) != 3 {
			return fmt.Errorf("цвет класса '%s' должен содержать 3 компоненты", c.Name)
		}
	}
	return nil
}
