package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iwtcode/inspectionService/internal/domain/models"

	"github.com/gin-gonic/gin"
)

const (
	streamBoundary     = "frame"
	streamPollInterval = 33 * time.Millisecond
)

// CameraConnect открывает камеру.
// @Summary Подключить камеру
// @Tags Camera
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Failure 503 {object} models.ErrorResponse "Камера не найдена"
// @Router /camera/connect [post]
func (h *Handler) CameraConnect(c *gin.Context) {
	if err := h.usecase.ConnectCamera(c.Request.Context()); err != nil {
		h.ErrorResponse(c, err)
		return
	}
	h.Success(c, "Camera connected")
}

// CameraDisconnect закрывает камеру.
// @Summary Отключить камеру
// @Tags Camera
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Router /camera/disconnect [post]
func (h *Handler) CameraDisconnect(c *gin.Context) {
	if err := h.usecase.DisconnectCamera(); err != nil {
		h.ErrorResponse(c, err)
		return
	}
	h.Success(c, "Camera disconnected")
}

// CameraStream отдает поток MJPEG (multipart/x-mixed-replace).
// @Summary Видеопоток
// @Description Каждый новый кадр отправляется один раз. Поток завершается, когда камера закрыта.
// @Tags Camera
// @Produce multipart/x-mixed-replace
// @Success 200 {file} binary
// @Failure 503 {object} models.ErrorResponse "Камера не открыта"
// @Router /camera/stream [get]
func (h *Handler) CameraStream(c *gin.Context) {
	frame, seq, err := h.usecase.CameraFrame()
	if err != nil && !h.usecase.CameraStatus().IsOpen {
		h.ErrorResponse(c, err)
		return
	}

	c.Header("Content-Type", "multipart/x-mixed-replace; boundary="+streamBoundary)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	var sent uint64
	c.Stream(func(w io.Writer) bool {
		if frame != nil && seq != sent {
			if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", streamBoundary, len(frame)); err != nil {
				return false
			}
			if _, err := w.Write(frame); err != nil {
				return false
			}
			if _, err := w.Write([]byte("\r\n")); err != nil {
				return false
			}
			sent = seq
		}

		select {
		case <-c.Request.Context().Done():
			return false
		case <-time.After(streamPollInterval):
		}
		frame, seq, err = h.usecase.CameraFrame()
		if err != nil {
			return h.usecase.CameraStatus().IsOpen
		}
		return true
	})
}

// CameraSnapshot возвращает последний кадр.
// @Summary Снимок
// @Tags Camera
// @Produce image/jpeg
// @Success 200 {file} binary
// @Failure 503 {object} models.ErrorResponse "Кадра нет"
// @Router /camera/snapshot [get]
func (h *Handler) CameraSnapshot(c *gin.Context) {
	frame, _, err := h.usecase.CameraFrame()
	if err != nil {
		h.ErrorResponse(c, err)
		return
	}
	c.Data(http.StatusOK, "image/jpeg", frame)
}

// CameraFPS возвращает измеренную частоту кадров.
// @Summary FPS камеры
// @Tags Camera
// @Produce json
// @Success 200 {object} models.CameraFPS
// @Router /camera/fps [get]
func (h *Handler) CameraFPS(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.CameraFPS())
}

// CameraStatus возвращает состояние камеры.
// @Summary Статус камеры
// @Tags Camera
// @Produce json
// @Success 200 {object} models.CameraStatus
// @Router /camera/status [get]
func (h *Handler) CameraStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.CameraStatus())
}

// GetCameraSettings возвращает текущие настройки камеры.
// @Summary Настройки камеры
// @Tags Camera
// @Produce json
// @Success 200 {object} models.CameraSettingsResponse
// @Router /camera/settings [get]
func (h *Handler) GetCameraSettings(c *gin.Context) {
	c.JSON(http.StatusOK, models.CameraSettingsResponse{CameraSettings: h.usecase.CameraSettings(), Success: true})
}

// UpdateCameraSettings сохраняет и применяет настройки.
// @Summary Изменить настройки камеры
// @Description Настройки сохраняются, даже если камера недоступна.
// @Tags Camera
// @Accept json
// @Produce json
// @Param input body models.CameraSettings true "Экспозиция, усиление, автоэкспозиция"
// @Success 200 {object} models.CameraSettingsResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /camera/settings [post]
func (h *Handler) UpdateCameraSettings(c *gin.Context) {
	var req models.CameraSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}
	resp, err := h.usecase.UpdateCameraSettings(req)
	if err != nil {
		h.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
