package interfaces

import (
	"context"

	"github.com/iwtcode/inspectionService/internal/domain/entities"
	"github.com/iwtcode/inspectionService/internal/domain/models"
)

// Usecases - это агрегирующий интерфейс для всех use cases
type Usecases interface {
	PlcUsecase
	ServoUsecase
	CameraUsecase
	InferenceUsecase
	ScanUsecase
	SystemUsecase
}

type PlcUsecase interface {
	ConnectPlc(ctx context.Context, req models.PlcConnectRequest) (models.PlcStatus, error)
	RestorePlcConnection(ctx context.Context) (models.PlcStatus, error)
	PlcStatus() models.PlcStatus
	WriteDevice(ctx context.Context, device string, value int) error
	ReadDevice(ctx context.Context, device string) (int, error)
	ScanStart(ctx context.Context) error
	ScanStop(ctx context.Context) error
	GridOne(ctx context.Context) error
	CycleReset(ctx context.Context) error
	HomingStart(ctx context.Context) error
	ControlStatus(ctx context.Context) models.ControlStatus
	Heartbeat(ctx context.Context) models.HeartbeatResponse
}

type ServoUsecase interface {
	ServoEnable(ctx context.Context, enable bool) error
	ServoMove(ctx context.Context, command string) error
	ServoSpeeds(ctx context.Context) models.ServoSpeedsResponse
	SetServoSpeeds(ctx context.Context, x, y, z int) error
}

type CameraUsecase interface {
	ConnectCamera(ctx context.Context) error
	DisconnectCamera() error
	CameraFrame() ([]byte, uint64, error)
	CameraFPS() models.CameraFPS
	CameraStatus() models.CameraStatus
	CameraSettings() models.CameraSettings
	UpdateCameraSettings(settings models.CameraSettings) (models.CameraSettingsResponse, error)
}

type InferenceUsecase interface {
	RunInference(ctx context.Context) (models.InferenceResult, error)
	LatestInference() models.LatestInference
	InferenceResultPath(name string) (string, error)
	ListInferenceResults() ([]models.ResultImage, error)
	ClearInferenceResults() (int, error)
}

type ScanUsecase interface {
	ListScans() ([]models.ScanSummary, error)
	GetScan(id string) (*entities.ScanRecord, error)
	ScanImagePath(id, name string) (string, error)
}

type SystemUsecase interface {
	Events(limit int) []models.Event
	Health(ctx context.Context) models.HealthResponse
	Troubleshoot(ctx context.Context, query string) (string, error)
}
