package models

type ServoEnableRequest struct {
	Enable *bool `json:"enable" binding:"required"`
}

type ServoMoveRequest struct {
	Command string `json:"command" binding:"required" example:"x_home"`
}

// ServoSpeeds - скорости осей, пишутся в регистры как signed dword
type ServoSpeeds struct {
	X *int `json:"x" binding:"required" example:"1000"`
	Y *int `json:"y" binding:"required" example:"1000"`
	Z *int `json:"z" binding:"required" example:"500"`
}

type ServoSpeedsResponse struct {
	Connected bool   `json:"connected"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Z         int    `json:"z"`
	Error     string `json:"error,omitempty"`
}
