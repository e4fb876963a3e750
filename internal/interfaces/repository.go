package interfaces

import (
	"github.com/iwtcode/inspectionService/internal/domain/entities"
)

// ScanRecordRepository - архив завершенных сканирований. Изменение и удаление не предусмотрены.
type ScanRecordRepository interface {
	Create(record *entities.ScanRecord) error
	GetByID(id string) (*entities.ScanRecord, error)
	List() ([]entities.ScanRecord, error)
}

// SettingsRepository хранит настройки, которые переживают перезапуск
type SettingsRepository interface {
	GetPlcEndpoint() (*entities.PlcEndpoint, error)
	SavePlcEndpoint(endpoint *entities.PlcEndpoint) error
	GetCameraSettings() (*entities.CameraSettings, error)
	SaveCameraSettings(settings *entities.CameraSettings) error
}

// Repository объединяет хранилища, которые живут в одной базе
type Repository interface {
	ScanRecordRepository
	SettingsRepository
}
