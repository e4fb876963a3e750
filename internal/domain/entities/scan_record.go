package entities

import (
	"time"

	"github.com/iwtcode/inspectionService/internal/domain/models"
)

const (
	ScanStatusPass = "Pass"
	ScanStatusFail = "Fail"
)

// ScanRecord - завершенный цикл сканирования. После записи не изменяется.
type ScanRecord struct {
	ID          string       `gorm:"primaryKey;not null" json:"id"`
	CreatedAt   time.Time    `gorm:"index" json:"createdAt"`
	Date        string       `gorm:"not null" json:"date"` // 2006-01-02
	Time        string       `gorm:"not null" json:"time"` // 15:04:05
	ImageCount  int          `json:"imageCount"`
	DefectCount int          `json:"defectCount"`
	Status      string       `gorm:"not null" json:"status"` // Pass / Fail
	Images      []string     `gorm:"serializer:json" json:"images"`
	Defects     []ScanDefect `gorm:"serializer:json" json:"defects"`
}

// ScanDefect - результат инференса по одному снимку цикла
type ScanDefect struct {
	Image         string          `json:"image"`
	OverlayURL    string          `json:"overlayUrl"`
	DefectCount   int             `json:"defectCount"`
	DefectDetails []models.Defect `json:"defectDetails"`
}

// Summary возвращает краткое представление записи для списка
func (r *ScanRecord) Summary() models.ScanSummary {
	summary := models.ScanSummary{
		ID:          r.ID,
		Date:        r.Date,
		Time:        r.Time,
		ImageCount:  r.ImageCount,
		DefectCount: r.DefectCount,
		Status:      r.Status,
	}
	if len(r.Images) > 0 {
		summary.Thumbnail = "/scans/" + r.ID + "/image/" + r.Images[0]
	}
	return summary
}
