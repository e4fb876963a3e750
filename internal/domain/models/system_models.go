package models

type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	UptimeSeconds uint64  `json:"uptime_s"`
}

type HealthResponse struct {
	Status        string     `json:"status"`
	AgentLoaded   bool       `json:"agent_loaded"`
	PlcConnected  bool       `json:"plc_connected"`
	CameraOpen    bool       `json:"camera_open"`
	InferenceMode string     `json:"inference_mode"`
	ScanState     ScanState  `json:"scan_state"`
	Host          *HostStats `json:"host,omitempty"`
}

type TroubleshootRequest struct {
	Query string `json:"query" binding:"required"`
}

type TroubleshootResponse struct {
	Response string `json:"response"`
}
