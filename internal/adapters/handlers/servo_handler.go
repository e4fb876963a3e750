package handlers

import (
	"net/http"

	"github.com/iwtcode/inspectionService/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// ServoEnable включает или выключает сервоприводы.
// @Summary Питание сервоприводов
// @Tags Servo
// @Accept json
// @Produce json
// @Param input body models.ServoEnableRequest true "enable"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /servo/enable [post]
func (h *Handler) ServoEnable(c *gin.Context) {
	var req models.ServoEnableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}
	if err := h.usecase.ServoEnable(c.Request.Context(), *req.Enable); err != nil {
		h.ErrorResponse(c, err)
		return
	}
	if *req.Enable {
		h.Success(c, "Servo Enabled")
	} else {
		h.Success(c, "Servo Disabled")
	}
}

// ServoMove выполняет команду перемещения импульсом на бит команды.
// @Summary Перемещение
// @Description Доступно только в Idle. Ответ приходит после снятия импульса.
// @Tags Servo
// @Accept json
// @Produce json
// @Param input body models.ServoMoveRequest true "Команда, например x_home"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse "Неизвестная команда"
// @Failure 409 {object} models.ErrorResponse "Идет сканирование"
// @Failure 503 {object} models.ErrorResponse
// @Router /servo/move [post]
func (h *Handler) ServoMove(c *gin.Context) {
	var req models.ServoMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}
	if err := h.usecase.ServoMove(c.Request.Context(), req.Command); err != nil {
		h.ErrorResponse(c, err)
		return
	}
	h.Success(c, "Triggered "+req.Command)
}

// GetServoSpeeds читает скорости осей.
// @Summary Скорости осей
// @Tags Servo
// @Produce json
// @Success 200 {object} models.ServoSpeedsResponse
// @Router /servo/speeds [get]
func (h *Handler) GetServoSpeeds(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.ServoSpeeds(c.Request.Context()))
}

// SetServoSpeeds записывает скорости осей.
// @Summary Установить скорости
// @Tags Servo
// @Accept json
// @Produce json
// @Param input body models.ServoSpeeds true "Скорости 0..max_speed"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse "Скорость вне диапазона"
// @Failure 503 {object} models.ErrorResponse
// @Router /servo/speeds [post]
func (h *Handler) SetServoSpeeds(c *gin.Context) {
	var req models.ServoSpeeds
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}
	if err := h.usecase.SetServoSpeeds(c.Request.Context(), *req.X, *req.Y, *req.Z); err != nil {
		h.ErrorResponse(c, err)
		return
	}
	h.Success(c, "Speeds updated")
}
