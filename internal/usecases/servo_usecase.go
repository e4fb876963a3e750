package usecases

import (
	"context"

	"github.com/iwtcode/inspectionService/internal/domain/models"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

func (u *Usecase) ServoEnable(ctx context.Context, enable bool) error {
	addr, err := u.plc.ParseAddress(u.profile.Coils.ServoEnable)
	if err != nil {
		return err
	}
	if err := u.plc.WriteBit(ctx, addr, enable); err != nil {
		return err
	}
	state := "disabled"
	if enable {
		state = "enabled"
	}
	u.logger.Info("Servo "+state, "device", addr.Name)
	u.events.Record(models.EventInfo, "Servo "+state)
	return nil
}

func (u *Usecase) ServoMove(ctx context.Context, command string) error {
	return u.scans.ServoMove(ctx, command)
}

// ServoSpeeds читает скорости осей из регистров (signed dword)
func (u *Usecase) ServoSpeeds(ctx context.Context) models.ServoSpeedsResponse {
	status := u.plc.Status()
	if !status.Connected {
		return models.ServoSpeedsResponse{Connected: false, Error: status.Error}
	}

	regs := u.profile.Servo.SpeedRegisters
	resp := models.ServoSpeedsResponse{Connected: true}
	for _, axis := range []struct {
		name string
		dst  *int
	}{{regs.X, &resp.X}, {regs.Y, &resp.Y}, {regs.Z, &resp.Z}} {
		addr, err := u.plc.ParseAddress(axis.name)
		if err == nil {
			*axis.dst, err = u.plc.ReadDword(ctx, addr)
		}
		if err != nil {
			return models.ServoSpeedsResponse{Connected: u.plc.Status().Connected, Error: err.Error()}
		}
	}
	return resp
}

// SetServoSpeeds проверяет все значения до первой записи в ПЛК
func (u *Usecase) SetServoSpeeds(ctx context.Context, x, y, z int) error {
	limit := u.profile.Servo.MaxSpeed
	for i, v := range []int{x, y, z} {
		if v < 0 || v > limit {
			return apperrors.Validationf("speed %s must be within 0..%d, got %d", "xyz"[i:i+1], limit, v)
		}
	}

	regs := u.profile.Servo.SpeedRegisters
	for _, w := range []struct {
		name  string
		value int
	}{{regs.X, x}, {regs.Y, y}, {regs.Z, z}} {
		addr, err := u.plc.ParseAddress(w.name)
		if err != nil {
			return err
		}
		if err := u.plc.WriteDword(ctx, addr, w.value); err != nil {
			return err
		}
	}
	u.logger.Info("Servo speeds updated", "x", x, "y", y, "z", z)
	return nil
}
