package settings

import (
	"errors"

	"github.com/iwtcode/inspectionService/internal/domain/entities"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
	"gorm.io/gorm"
)

func (r *SettingsRepositoryImpl) GetPlcEndpoint() (*entities.PlcEndpoint, error) {
	var endpoint entities.PlcEndpoint
	if err := r.db.First(&endpoint).Error; err != nil {
		return nil, notFound(err)
	}
	return &endpoint, nil
}

// SavePlcEndpoint перезаписывает единственную строку с адресом ПЛК
func (r *SettingsRepositoryImpl) SavePlcEndpoint(endpoint *entities.PlcEndpoint) error {
	return r.db.Save(endpoint).Error
}

func (r *SettingsRepositoryImpl) GetCameraSettings() (*entities.CameraSettings, error) {
	var settings entities.CameraSettings
	if err := r.db.First(&settings).Error; err != nil {
		return nil, notFound(err)
	}
	return &settings, nil
}

func (r *SettingsRepositoryImpl) SaveCameraSettings(settings *entities.CameraSettings) error {
	return r.db.Save(settings).Error
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrDataNotFound
	}
	return err
}
