package entities

import "time"

// singletonID - все настройки хранятся одной строкой
const singletonID = 1

// PlcEndpoint - последний успешно подключенный адрес ПЛК, восстанавливается при старте
type PlcEndpoint struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Host      string    `gorm:"not null" json:"ip"`
	Port      int       `gorm:"not null" json:"port"`
	TimeoutMs int       `json:"timeout"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewPlcEndpoint(host string, port, timeoutMs int) *PlcEndpoint {
	return &PlcEndpoint{ID: singletonID, Host: host, Port: port, TimeoutMs: timeoutMs}
}

// CameraSettings - сохраненные параметры камеры
type CameraSettings struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	Exposure     float64   `json:"exposure"`
	Gain         float64   `json:"gain"`
	AutoExposure bool      `json:"auto_exposure"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewCameraSettings(exposure, gain float64, autoExposure bool) *CameraSettings {
	return &CameraSettings{ID: singletonID, Exposure: exposure, Gain: gain, AutoExposure: autoExposure}
}
