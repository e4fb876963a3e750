package usecases

import (
	"github.com/iwtcode/inspectionService/internal/domain/entities"
	"github.com/iwtcode/inspectionService/internal/domain/models"
)

func (u *Usecase) ListScans() ([]models.ScanSummary, error) {
	records, err := u.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]models.ScanSummary, 0, len(records))
	for i := range records {
		out = append(out, records[i].Summary())
	}
	return out, nil
}

func (u *Usecase) GetScan(id string) (*entities.ScanRecord, error) {
	return u.repo.GetByID(id)
}

func (u *Usecase) ScanImagePath(id, name string) (string, error) {
	return u.scans.ImagePath(id, name)
}
