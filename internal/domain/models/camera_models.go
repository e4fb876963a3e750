package models

type CameraSettings struct {
	Exposure     float64 `json:"exposure" example:"5000"`
	Gain         float64 `json:"gain" example:"0"`
	AutoExposure bool    `json:"auto_exposure"`
}

type CameraSettingsResponse struct {
	CameraSettings
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type CameraFPS struct {
	IsOpen bool    `json:"is_open"`
	FPS    float64 `json:"fps"`
}

type CameraStatus struct {
	IsOpen     bool   `json:"is_open"`
	IsGrabbing bool   `json:"is_grabbing"`
	Driver     string `json:"driver"`
	Error      string `json:"error,omitempty"`
}
