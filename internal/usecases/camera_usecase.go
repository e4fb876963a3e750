package usecases

import (
	"context"

	"github.com/iwtcode/inspectionService/internal/domain/models"
)

func (u *Usecase) ConnectCamera(ctx context.Context) error { return u.camera.Connect(ctx) }

func (u *Usecase) DisconnectCamera() error { return u.camera.Disconnect() }

func (u *Usecase) CameraFrame() ([]byte, uint64, error) { return u.camera.CurrentFrame() }

func (u *Usecase) CameraFPS() models.CameraFPS { return u.camera.FPS() }

func (u *Usecase) CameraStatus() models.CameraStatus { return u.camera.Status() }

func (u *Usecase) CameraSettings() models.CameraSettings { return u.camera.Settings() }

// UpdateCameraSettings сохраняет настройки даже при выключенной камере
func (u *Usecase) UpdateCameraSettings(settings models.CameraSettings) (models.CameraSettingsResponse, error) {
	applied, err := u.camera.ApplySettings(settings)
	if err != nil {
		return models.CameraSettingsResponse{}, err
	}
	resp := models.CameraSettingsResponse{CameraSettings: u.camera.Settings(), Success: true}
	if applied {
		resp.Message = "Settings applied and saved"
	} else {
		resp.Message = "Settings saved (camera offline)"
	}
	return resp, nil
}
