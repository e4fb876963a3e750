package handlers

import (
	"errors"
	"net/http"

	"github.com/iwtcode/inspectionService/internal/domain/models"
	apperrors "github.com/iwtcode/inspectionService/pkg/errors"

	"github.com/gin-gonic/gin"
)

// StatusFor сопоставляет ошибку с HTTP-кодом
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDataNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrBusy), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case apperrors.IsLinkError(err), apperrors.IsCameraError(err),
		errors.Is(err, apperrors.ErrUnavailable), errors.Is(err, apperrors.ErrNoFrame),
		errors.Is(err, apperrors.ErrLinkClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse возвращает стандартизированный ответ с ошибкой. Поле error никогда не пустое.
func (h *Handler) ErrorResponse(c *gin.Context, err error) {
	statusCode := StatusFor(err)
	message := apperrors.InternalServerError
	if err != nil && err.Error() != "" {
		message = err.Error()
	}

	if statusCode >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err, "statusCode", statusCode)
	} else {
		h.logger.Warn("Request rejected", "path", c.FullPath(), "error", err, "statusCode", statusCode)
	}
	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{Success: false, Error: message})
}

// BadRequest возвращает ошибку 400
func (h *Handler) BadRequest(c *gin.Context, err error, message string) {
	if message == "" {
		message = apperrors.BadRequest
	}
	if err != nil {
		message += ": " + err.Error()
	}
	h.logger.Warn("Invalid request", "path", c.FullPath(), "error", err)
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Error: message})
}

// Success возвращает {success:true, message}
func (h *Handler) Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: message})
}
