package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/iwtcode/inspectionService/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// PlcStatus возвращает последнее известное состояние связи с ПЛК.
// @Summary Статус ПЛК
// @Description Не обращается к сети: данные обновляются фоновой проверкой связи.
// @Tags PLC
// @Produce json
// @Success 200 {object} models.PlcStatus
// @Router /plc/status [get]
func (h *Handler) PlcStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.PlcStatus())
}

// PlcConnect (пере)подключается к ПЛК.
// @Summary Подключение к ПЛК
// @Description Закрывает предыдущую сессию и открывает новую. Ошибка подключения возвращается с кодом 200 и connected=false.
// @Tags PLC
// @Accept json
// @Produce json
// @Param input body models.PlcConnectRequest true "Адрес ПЛК"
// @Success 200 {object} models.PlcConnectResponse
// @Failure 400 {object} models.ErrorResponse "Неверный формат запроса"
// @Router /plc/connect [post]
func (h *Handler) PlcConnect(c *gin.Context) {
	var req models.PlcConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	h.logger.Info("Attempting to connect to PLC", "ip", req.IP, "port", req.Port)

	status, err := h.usecase.ConnectPlc(c.Request.Context(), req)
	if err != nil {
		h.logger.Warn("PLC connection failed", "ip", req.IP, "error", err)
		c.JSON(http.StatusOK, models.PlcConnectResponse{Connected: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.PlcConnectResponse{Connected: status.Connected})
}

// PlcWrite - универсальная запись бита или слова.
// @Summary Запись в ПЛК
// @Description Запись бита сканирования (M5) выполняется как старт/стоп сканирования.
// @Tags PLC
// @Accept json
// @Produce json
// @Param input body models.PlcWriteRequest true "Устройство и значение"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse "Некорректное устройство или значение"
// @Failure 409 {object} models.ErrorResponse "Недопустимый переход"
// @Failure 503 {object} models.ErrorResponse "ПЛК недоступен"
// @Router /plc/write [post]
func (h *Handler) PlcWrite(c *gin.Context) {
	var req models.PlcWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}
	if err := h.usecase.WriteDevice(c.Request.Context(), strings.TrimSpace(req.Device), *req.Value); err != nil {
		h.ErrorResponse(c, err)
		return
	}
	h.Success(c, "Written "+req.Device)
}

// PlcRead читает бит или слово.
// @Summary Чтение из ПЛК
// @Tags PLC
// @Accept json
// @Produce json
// @Param input body models.PlcReadRequest true "Устройство"
// @Success 200 {object} models.PlcReadResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /plc/read [post]
func (h *Handler) PlcRead(c *gin.Context) {
	var req models.PlcReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}
	value, err := h.usecase.ReadDevice(c.Request.Context(), strings.TrimSpace(req.Device))
	if err != nil {
		h.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, models.PlcReadResponse{Success: true, Device: req.Device, Value: value})
}

// ScanStart запускает сканирование (M5=1).
// @Summary Старт сканирования
// @Tags Scan
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Failure 409 {object} models.ErrorResponse "Станок не в Idle"
// @Failure 503 {object} models.ErrorResponse "ПЛК недоступен"
// @Router /plc/scan-start [post]
func (h *Handler) ScanStart(c *gin.Context) {
	h.command(c, h.usecase.ScanStart, "Scan started")
}

// ScanStop останавливает сканирование (M5=0). Повторный вызов безопасен.
// @Summary Стоп сканирования
// @Tags Scan
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Failure 503 {object} models.ErrorResponse "ПЛК недоступен"
// @Router /plc/scan-stop [post]
func (h *Handler) ScanStop(c *gin.Context) {
	h.command(c, h.usecase.ScanStop, "Scan stopped")
}

// GridOne запускает съемку сетки (импульс M4).
// @Summary Съемка сетки
// @Tags Scan
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Failure 409 {object} models.ErrorResponse "Съемка уже идет"
// @Failure 503 {object} models.ErrorResponse "ПЛК недоступен"
// @Router /plc/grid-one [post]
func (h *Handler) GridOne(c *gin.Context) {
	h.command(c, h.usecase.GridOne, "Grid triggered")
}

// CycleReset сбрасывает цикл (импульс M120).
// @Summary Сброс цикла
// @Tags Scan
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Failure 503 {object} models.ErrorResponse "ПЛК недоступен"
// @Router /plc/cycle-reset [post]
func (h *Handler) CycleReset(c *gin.Context) {
	h.command(c, h.usecase.CycleReset, "Cycle reset")
}

// HomingStart запускает возврат в исходную позицию (импульс X6).
// @Summary Возврат в ноль
// @Tags Scan
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Failure 409 {object} models.ErrorResponse "Станок не в Idle"
// @Failure 503 {object} models.ErrorResponse "ПЛК недоступен"
// @Router /plc/homing-start [post]
func (h *Handler) HomingStart(c *gin.Context) {
	h.command(c, h.usecase.HomingStart, "Homing started")
}

// ControlStatus возвращает управляющие биты и состояние автомата.
// @Summary Состояние управления
// @Description Сверяет локальное состояние с ПЛК. stale=true - данные из кэша.
// @Tags Scan
// @Produce json
// @Success 200 {object} models.ControlStatus
// @Router /plc/control-status [get]
func (h *Handler) ControlStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.ControlStatus(c.Request.Context()))
}

// Heartbeat читает бит освещения.
// @Summary Heartbeat
// @Tags PLC
// @Produce json
// @Success 200 {object} models.HeartbeatResponse
// @Router /plc/heartbeat [get]
func (h *Handler) Heartbeat(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.Heartbeat(c.Request.Context()))
}

func (h *Handler) command(c *gin.Context, fn func(ctx context.Context) error, message string) {
	if err := fn(c.Request.Context()); err != nil {
		h.ErrorResponse(c, err)
		return
	}
	h.Success(c, message)
}
