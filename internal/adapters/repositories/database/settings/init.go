package settings

import (
	"github.com/iwtcode/inspectionService/internal/interfaces"
	"gorm.io/gorm"
)

type SettingsRepositoryImpl struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) interfaces.SettingsRepository {
	return &SettingsRepositoryImpl{db: db}
}
