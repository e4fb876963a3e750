package models

import "time"

// DeviceKind различает битовые (coil) и словные (register) устройства ПЛК
type DeviceKind string

const (
	DeviceCoil     DeviceKind = "coil"
	DeviceRegister DeviceKind = "register"
)

// DeviceAddress идентифицирует один бит или слово в памяти ПЛК ("M5", "Y1", "D0")
type DeviceAddress struct {
	Kind DeviceKind `json:"kind"`
	Name string     `json:"name"`
}

func (a DeviceAddress) IsCoil() bool { return a.Kind == DeviceCoil }

func (a DeviceAddress) String() string { return a.Name }

// PlcConnectRequest - запрос на (пере)подключение к ПЛК
type PlcConnectRequest struct {
	IP      string `json:"ip" binding:"required" example:"169.254.180.21"`
	Port    int    `json:"port" binding:"required" example:"5000"`
	Timeout int    `json:"timeout" example:"5000"` // мс, 0 = значение по умолчанию
}

// PlcStatus - снимок состояния связи с ПЛК
type PlcStatus struct {
	Connected   bool       `json:"connected"`
	IP          string     `json:"ip"`
	Port        int        `json:"port"`
	TimeoutMs   int        `json:"timeout"`
	Error       string     `json:"error,omitempty"`
	LastChecked *time.Time `json:"last_checked,omitempty"`
}

type PlcConnectResponse struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

// PlcWriteRequest - универсальная запись бита/слова
type PlcWriteRequest struct {
	Device string `json:"device" binding:"required" example:"Y1"`
	Value  *int   `json:"value" binding:"required" example:"1"`
}

type PlcReadRequest struct {
	Device string `json:"device" binding:"required" example:"M5"`
}

type PlcReadResponse struct {
	Success bool   `json:"success"`
	Device  string `json:"device"`
	Value   int    `json:"value"`
}

// ControlStatus - состояние управляющих битов и автомата сканирования
type ControlStatus struct {
	Connected  bool      `json:"connected"`
	Scan       int       `json:"m5"`
	Grid       int       `json:"m4"`
	Reset      int       `json:"m120"`
	State      ScanState `json:"state"`
	ScanID     string    `json:"scan_id,omitempty"`
	ImageCount int       `json:"image_count"`
	Stale      bool      `json:"stale,omitempty"` // устройство не опрошено, данные из кэша
	Error      string    `json:"error,omitempty"`
}

type HeartbeatResponse struct {
	Connected bool   `json:"connected"`
	Light     int    `json:"y1"`
	Error     string `json:"error,omitempty"`
}
