package handlers

import (
	"fmt"
	"net/http"

	"github.com/iwtcode/inspectionService/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// RunInference выполняет один проход инференса.
// @Summary Запуск инференса
// @Description Режим (mock/live) задается конфигурацией. Параллельный запуск отклоняется.
// @Tags Inference
// @Produce json
// @Success 200 {object} models.InferenceResult
// @Failure 409 {object} models.ErrorResponse "Инференс уже выполняется"
// @Failure 503 {object} models.ErrorResponse "Нет кадра или модель недоступна"
// @Router /inference/run [post]
// @Router /inference/mock-run [post]
func (h *Handler) RunInference(c *gin.Context) {
	result, err := h.usecase.RunInference(c.Request.Context())
	if err != nil {
		h.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// LatestInference возвращает последний результат без ожидания.
// @Summary Последний результат
// @Tags Inference
// @Produce json
// @Success 200 {object} models.LatestInference
// @Router /inference/mock-latest [get]
// @Router /plc/latest-inference [get]
func (h *Handler) LatestInference(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.LatestInference())
}

// InferenceResult отдает файл результата.
// @Summary Файл результата
// @Tags Inference
// @Produce image/png
// @Param name path string true "Имя файла"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /inference/result/{name} [get]
func (h *Handler) InferenceResult(c *gin.Context) {
	path, err := h.usecase.InferenceResultPath(c.Param("name"))
	if err != nil {
		h.ErrorResponse(c, err)
		return
	}
	c.File(path)
}

// ListInferenceResults возвращает последние overlay-изображения.
// @Summary Список результатов
// @Tags Inference
// @Produce json
// @Success 200 {object} models.ResultImageList
// @Router /inference/results [get]
func (h *Handler) ListInferenceResults(c *gin.Context) {
	results, err := h.usecase.ListInferenceResults()
	if err != nil {
		h.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ResultImageList{Results: results})
}

// ClearInferenceResults удаляет файлы результатов.
// @Summary Очистить результаты
// @Tags Inference
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Router /inference/results [delete]
func (h *Handler) ClearInferenceResults(c *gin.Context) {
	removed, err := h.usecase.ClearInferenceResults()
	if err != nil {
		h.ErrorResponse(c, err)
		return
	}
	h.Success(c, fmt.Sprintf("Removed %d file(s)", removed))
}
