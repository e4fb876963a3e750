package interfaces

import (
	"context"

	"github.com/iwtcode/inspectionService/internal/domain/models"
)

// EventRecorder принимает события для журнала
type EventRecorder interface {
	Record(kind models.EventType, message string)
}

// EventJournal - журнал событий с рассылкой во внешние приемники
type EventJournal interface {
	EventRecorder
	List(limit int) []models.Event
	Publish(kind, key string, payload interface{})
}

// PlcLink владеет единственной сессией с ПЛК. Все операции выполняются строго по очереди.
type PlcLink interface {
	Connect(ctx context.Context, host string, port, timeoutMs int) (models.PlcStatus, error)
	Status() models.PlcStatus
	ParseAddress(name string) (models.DeviceAddress, error)
	ReadBit(ctx context.Context, addr models.DeviceAddress) (bool, error)
	ReadWord(ctx context.Context, addr models.DeviceAddress) (int, error)
	ReadDword(ctx context.Context, addr models.DeviceAddress) (int, error)
	WriteBit(ctx context.Context, addr models.DeviceAddress, value bool) error
	Trigger(ctx context.Context, addr models.DeviceAddress) error
	WriteWord(ctx context.Context, addr models.DeviceAddress, value int) error
	WriteDword(ctx context.Context, addr models.DeviceAddress, value int) error
	Start()
	Close() error
}

// CameraLink владеет дескриптором камеры и последним кадром
type CameraLink interface {
	Connect(ctx context.Context) error
	Disconnect() error
	CurrentFrame() ([]byte, uint64, error)
	FPS() models.CameraFPS
	Status() models.CameraStatus
	Settings() models.CameraSettings
	ApplySettings(settings models.CameraSettings) (bool, error)
}

// InferenceRunner выполняет не более одного прохода инференса одновременно
type InferenceRunner interface {
	Run(ctx context.Context) (models.InferenceResult, error)
	Latest() (models.InferenceResult, bool)
	Mode() string
	OnResult(listener func(models.InferenceResult))
	ResultPath(name string) (string, error)
	ListResults(limit int) ([]models.ResultImage, error)
	ClearResults() (int, error)
	StartTrigger()
	StopTrigger()
}

// ScanMachine - автомат состояний цикла сканирования поверх PlcLink
type ScanMachine interface {
	ScanStart(ctx context.Context) error
	ScanStop(ctx context.Context) error
	GridOne(ctx context.Context) error
	CycleReset(ctx context.Context) error
	HomingStart(ctx context.Context) error
	Write(ctx context.Context, device string, value int) error
	ServoMove(ctx context.Context, command string) error
	ControlStatus(ctx context.Context) models.ControlStatus
	State() models.ScanState
	Session() *models.ScanSessionInfo
	RecordInference(result models.InferenceResult)
	ImagePath(scanID, name string) (string, error)
	Start()
	Stop()
}

// AgentClient - прокси к внешнему сервису диагностики (RAG)
type AgentClient interface {
	Configured() bool
	Loaded(ctx context.Context) bool
	Troubleshoot(ctx context.Context, query string) (string, error)
}
