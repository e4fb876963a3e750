package models

import "time"

type ScanState string

const (
	ScanIdle          ScanState = "Idle"
	ScanScanning      ScanState = "Scanning"
	ScanGridTriggered ScanState = "GridTriggered"
	ScanHoming        ScanState = "Homing"
)

// ScanSessionInfo - публичное представление текущего цикла
type ScanSessionInfo struct {
	ID          string     `json:"id"`
	State       ScanState  `json:"state"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	ImageCount  int        `json:"image_count"`
	DefectCount int        `json:"defect_count"`
}

// ScanSummary - элемент списка архива
type ScanSummary struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ImageCount  int    `json:"imageCount"`
	DefectCount int    `json:"defectCount"`
	Status      string `json:"status"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

type ScanListResponse struct {
	Scans []ScanSummary `json:"scans"`
}
