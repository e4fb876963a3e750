package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwtcode/inspectionService/internal/domain/entities"
	"github.com/iwtcode/inspectionService/internal/domain/models"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

// ConnectPlc подключается к ПЛК и при успехе запоминает адрес для следующего запуска
func (u *Usecase) ConnectPlc(ctx context.Context, req models.PlcConnectRequest) (models.PlcStatus, error) {
	status, err := u.plc.Connect(ctx, req.IP, req.Port, req.Timeout)
	if err != nil {
		u.events.Record(models.EventError, "PLC connection failed: "+err.Error())
		return status, err
	}
	u.events.Record(models.EventSuccess, fmt.Sprintf("PLC connected to %s:%d", status.IP, status.Port))
	if err := u.repo.SavePlcEndpoint(entities.NewPlcEndpoint(status.IP, status.Port, status.TimeoutMs)); err != nil {
		u.logger.Warn("Failed to persist PLC endpoint", "error", err)
	}
	return status, nil
}

// RestorePlcConnection подключается к сохраненному адресу, иначе к PLC_HOST из конфигурации
func (u *Usecase) RestorePlcConnection(ctx context.Context) (models.PlcStatus, error) {
	req := models.PlcConnectRequest{IP: u.cfg.Plc.Host, Port: u.cfg.Plc.Port, Timeout: u.cfg.Plc.TimeoutMs}

	saved, err := u.repo.GetPlcEndpoint()
	switch {
	case err == nil:
		req = models.PlcConnectRequest{IP: saved.Host, Port: saved.Port, Timeout: saved.TimeoutMs}
	case !errors.Is(err, apperrors.ErrDataNotFound):
		u.logger.Warn("Failed to load saved PLC endpoint", "error", err)
	}
	if req.IP == "" {
		return u.plc.Status(), apperrors.ErrDataNotFound
	}

	u.logger.Info("Restoring PLC connection", "ip", req.IP, "port", req.Port)
	return u.plc.Connect(ctx, req.IP, req.Port, req.Timeout)
}

func (u *Usecase) PlcStatus() models.PlcStatus {
	return u.plc.Status()
}

func (u *Usecase) WriteDevice(ctx context.Context, device string, value int) error {
	return u.scans.Write(ctx, device, value)
}

func (u *Usecase) ReadDevice(ctx context.Context, device string) (int, error) {
	addr, err := u.plc.ParseAddress(device)
	if err != nil {
		return 0, err
	}
	if addr.IsCoil() {
		v, err := u.plc.ReadBit(ctx, addr)
		if err != nil {
			return 0, err
		}
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return u.plc.ReadWord(ctx, addr)
}

func (u *Usecase) ScanStart(ctx context.Context) error   { return u.scans.ScanStart(ctx) }
func (u *Usecase) ScanStop(ctx context.Context) error    { return u.scans.ScanStop(ctx) }
func (u *Usecase) GridOne(ctx context.Context) error     { return u.scans.GridOne(ctx) }
func (u *Usecase) CycleReset(ctx context.Context) error  { return u.scans.CycleReset(ctx) }
func (u *Usecase) HomingStart(ctx context.Context) error { return u.scans.HomingStart(ctx) }

func (u *Usecase) ControlStatus(ctx context.Context) models.ControlStatus {
	return u.scans.ControlStatus(ctx)
}

// Heartbeat читает бит освещения; ошибки отражаются в ответе, а не возвращаются
func (u *Usecase) Heartbeat(ctx context.Context) models.HeartbeatResponse {
	status := u.plc.Status()
	if !status.Connected {
		return models.HeartbeatResponse{Connected: false, Error: status.Error}
	}
	addr, err := u.plc.ParseAddress(u.profile.Coils.Light)
	if err != nil {
		return models.HeartbeatResponse{Connected: true, Error: err.Error()}
	}
	on, err := u.plc.ReadBit(ctx, addr)
	if err != nil {
		return models.HeartbeatResponse{Connected: u.plc.Status().Connected, Error: err.Error()}
	}
	resp := models.HeartbeatResponse{Connected: true}
	if on {
		resp.Light = 1
	}
	return resp
}
