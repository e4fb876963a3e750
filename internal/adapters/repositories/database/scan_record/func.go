package scan_record

import (
	"errors"
	"fmt"

	"github.com/iwtcode/inspectionService/internal/domain/entities"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
	"gorm.io/gorm"
)

// Create добавляет запись в архив. Запись с существующим id отклоняется.
func (r *ScanRecordRepositoryImpl) Create(record *entities.ScanRecord) error {
	return r.db.Create(record).Error
}

func (r *ScanRecordRepositoryImpl) GetByID(id string) (*entities.ScanRecord, error) {
	var record entities.ScanRecord
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: скан '%s'", apperrors.ErrDataNotFound, id)
		}
		return nil, err
	}
	return &record, nil
}

// List возвращает архив, новые записи первыми
func (r *ScanRecordRepositoryImpl) List() ([]entities.ScanRecord, error) {
	var records []entities.ScanRecord
	if err := r.db.Order("created_at desc").Order("id desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
