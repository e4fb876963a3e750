package models

// ErrorResponse представляет стандартный ответ с ошибкой.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"plc write M4: connection refused"`
}

// SuccessResponse представляет стандартный успешный ответ.
type SuccessResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Scan started"`
}
