package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/iwtcode/inspectionService/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/vmihailenco/msgpack/v5"
)

const msgpackContentType = "application/msgpack"

// ListScans возвращает архив сканирований, новые первыми.
// @Summary Архив сканирований
// @Tags Scans
// @Produce json
// @Success 200 {object} models.ScanListResponse
// @Router /scans/list [get]
func (h *Handler) ListScans(c *gin.Context) {
	scans, err := h.usecase.ListScans()
	if err != nil {
		h.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ScanListResponse{Scans: scans})
}

// GetScan возвращает запись архива.
// @Summary Запись архива
// @Description При Accept: application/msgpack ответ кодируется в MessagePack.
// @Tags Scans
// @Produce json
// @Produce application/msgpack
// @Param id path string true "ID сканирования"
// @Success 200 {object} entities.ScanRecord
// @Failure 404 {object} models.ErrorResponse
// @Router /scans/{id} [get]
func (h *Handler) GetScan(c *gin.Context) {
	record, err := h.usecase.GetScan(c.Param("id"))
	if err != nil {
		h.ErrorResponse(c, err)
		return
	}

	if strings.Contains(c.GetHeader("Accept"), msgpackContentType) {
		data, err := encodeMsgpack(record)
		if err != nil {
			h.ErrorResponse(c, err)
			return
		}
		c.Data(http.StatusOK, msgpackContentType, data)
		return
	}
	c.JSON(http.StatusOK, record)
}

// ScanImage отдает снимок из архива.
// @Summary Снимок сканирования
// @Tags Scans
// @Produce image/jpeg
// @Param id path string true "ID сканирования"
// @Param name path string true "Имя файла"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /scans/{id}/image/{name} [get]
func (h *Handler) ScanImage(c *gin.Context) {
	path, err := h.usecase.ScanImagePath(c.Param("id"), c.Param("name"))
	if err != nil {
		h.ErrorResponse(c, err)
		return
	}
	c.File(path)
}

// encodeMsgpack кодирует структуру с именами полей из json-тегов
func encodeMsgpack(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
