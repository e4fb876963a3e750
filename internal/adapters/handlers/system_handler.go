package handlers

import (
	"net/http"
	"strconv"

	"github.com/iwtcode/inspectionService/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// Events возвращает журнал событий, новые первыми.
// @Summary Журнал событий
// @Tags System
// @Produce json
// @Param limit query int false "Сколько событий вернуть (по умолчанию все)"
// @Success 200 {object} models.EventListResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /events [get]
func (h *Handler) Events(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			h.BadRequest(c, err, "limit must be a non-negative integer")
			return
		}
		limit = v
	}
	c.JSON(http.StatusOK, models.EventListResponse{Events: h.usecase.Events(limit)})
}

// EventsSocket переводит соединение в websocket и отправляет события по мере появления.
// @Summary Поток событий
// @Tags System
// @Router /events/ws [get]
func (h *Handler) EventsSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	h.logger.Debug("Websocket client connected", "client_ip", c.ClientIP())
	h.hub.Serve(conn, gin.H{
		"plc":    h.usecase.PlcStatus(),
		"events": h.usecase.Events(20),
	})
}

// Health сообщает о готовности контроллера и зависимостей.
// @Summary Health
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.Health(c.Request.Context()))
}

// Troubleshoot передает вопрос сервису диагностики.
// @Summary Диагностика (RAG)
// @Tags System
// @Accept json
// @Produce json
// @Param input body models.TroubleshootRequest true "Вопрос"
// @Success 200 {object} models.TroubleshootResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse "Сервис не настроен или недоступен"
// @Router /api/troubleshoot [post]
func (h *Handler) Troubleshoot(c *gin.Context) {
	var req models.TroubleshootRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Query is required")
		return
	}
	answer, err := h.usecase.Troubleshoot(c.Request.Context(), req.Query)
	if err != nil {
		h.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, models.TroubleshootResponse{Response: answer})
}
