package models

import "time"

const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Defect - один класс дефектов, найденный на снимке
type Defect struct {
	Type       string  `json:"type"`
	ClassID    int     `json:"class_id"`
	PixelCount int     `json:"pixel_count"`
	AreaRatio  float64 `json:"area_ratio"`
	Severity   string  `json:"severity"`
}

// InferenceResult - неизменяемый результат одного прохода инференса
type InferenceResult struct {
	Success         bool      `json:"success"`
	Sequence        uint64    `json:"sequence"`
	Timestamp       time.Time `json:"timestamp"`
	InferenceTimeMs float64   `json:"inference_time_ms"`
	Defects         []Defect  `json:"defects"`
	MaskURL         string    `json:"mask_url,omitempty"`
	OverlayURL      string    `json:"overlay_url,omitempty"`
	SourceImage     string    `json:"source_image,omitempty"`
	Message         string    `json:"message,omitempty"`

	SourcePath  string `json:"-"`
	OverlayPath string `json:"-"`
}

// LatestInference - ответ для опроса последнего результата
type LatestInference struct {
	HasResult       bool       `json:"has_result"`
	Sequence        uint64     `json:"sequence,omitempty"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`
	OverlayURL      string     `json:"overlay_url,omitempty"`
	Defects         []Defect   `json:"defects,omitempty"`
	InferenceTimeMs float64    `json:"inference_time_ms,omitempty"`
	SourceImage     string     `json:"source_image,omitempty"`
}

type ResultImage struct {
	Filename string    `json:"filename"`
	URL      string    `json:"url"`
	Created  time.Time `json:"created"`
}

type ResultImageList struct {
	Results []ResultImage `json:"results"`
}
