package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"netrates/internal/modules/pricelist"
	"netrates/internal/pkg/response"
)

const maxHeaderBytes = 5 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	exports := r.Group("/pricelists/:id/export")
	{
		exports.GET("/excel", h.download(h.service.Excel))
		exports.GET("/csv", h.download(h.service.CSV))
		exports.GET("/json", h.download(h.service.JSON))
		exports.GET("/pdf", h.download(h.service.PDF))
	}
	r.GET("/headers", h.ListHeaders)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/headers", h.UploadHeader)
}

func (h *Handler) download(render func(ctx context.Context, publicID string) (*File, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := render(c.Request.Context(), c.Param("id"))
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
		c.Data(http.StatusOK, file.ContentType, file.Data)
	}
}

func (h *Handler) ListHeaders(c *gin.Context) {
	names, err := h.service.ListHeaders()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list header templates")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"headers": names})
}

func (h *Handler) UploadHeader(c *gin.Context) {
	file, fh, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Header PDF file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxHeaderBytes+1))
	if err != nil || len(data) > maxHeaderBytes {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Header file too large")
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = fh.Filename
	}

	if err := h.service.SaveHeader(name, data); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"uploaded": true})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricelist.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Price list not found")
	case errors.Is(err, ErrMissingCustomer):
		response.Error(c, http.StatusBadRequest, "MISSING_CUSTOMER", "Customer name is required for the PDF export")
	case errors.Is(err, ErrMissingHeader):
		response.Error(c, http.StatusBadRequest, "MISSING_HEADER", "A header template must be selected for the PDF export")
	case errors.Is(err, ErrHeaderNotFound):
		response.Error(c, http.StatusNotFound, "HEADER_NOT_FOUND", "Header template not found")
	case errors.Is(err, ErrBadHeaderFile):
		response.Error(c, http.StatusBadRequest, "BAD_HEADER_FILE", "Header file must be a PDF")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid value")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
