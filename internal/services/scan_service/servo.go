package scan_service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/iwtcode/inspectionService/internal/domain/models"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

// ServoMove подает импульс на бит команды перемещения: 1, пауза, 0.
// Бит сбрасывается, даже если клиент перестал ждать ответа.
func (m *Machine) ServoMove(ctx context.Context, command string) error {
	name, ok := m.opts.Profile.Servo.Commands[command]
	if !ok {
		return apperrors.Validationf("unknown servo command %q, valid: %s", command, strings.Join(m.Commands(), ", "))
	}
	addr, err := m.opts.Plc.ParseAddress(name)
	if err != nil {
		return err
	}

	m.cmdMu.Lock()
	defer m.cmdMu.Unlock()

	if state := m.State(); state != models.ScanIdle {
		return apperrors.Conflictf("servo move requires Idle, machine is %s", state)
	}
	if err := m.opts.Plc.WriteBit(ctx, addr, true); err != nil {
		m.logger.Warn("Servo move failed", "command", command, "error", err)
		return err
	}
	m.logger.Info("Servo move triggered", "command", command, "device", addr.Name)

	timer := time.NewTimer(m.opts.Profile.PulseDuration())
	select {
	case <-timer.C:
	case <-m.stop:
		timer.Stop()
	}

	if err := m.opts.Plc.WriteBit(context.WithoutCancel(ctx), addr, false); err != nil {
		m.logger.Error("Failed to release servo command bit", "command", command, "device", addr.Name, "error", err)
		m.record(models.EventError, "Servo command "+command+" not released: "+err.Error())
		return err
	}
	m.record(models.EventInfo, "Servo move "+command)
	return nil
}

// Commands возвращает известные команды перемещения
func (m *Machine) Commands() []string {
	out := make([]string, 0, len(m.opts.Profile.Servo.Commands))
	for k := range m.opts.Profile.Servo.Commands {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
