package ratesheet

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"netrates/internal/pkg/response"
)

const maxUploadBytes = 10 << 20 // 10 MiB is plenty for a few hundred rows

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sheets", h.Upload)
	rg.GET("/sheets", h.List)
	rg.GET("/sheets/:id", h.Get)
	rg.GET("/sheets/:id/items", h.Items)
}

// RegisterAdminRoutes attaches the destructive operations behind auth.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/sheets/:id", h.Delete)
}

func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing 'file' upload")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unreadable upload")
		return
	}
	defer func() { _ = src.Close() }()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unreadable upload")
		return
	}
	if len(data) > maxUploadBytes {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Workbook file too large")
		return
	}

	sheet, err := h.service.Upload(c.Request.Context(), c.PostForm("name"), file.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateName):
			response.Error(c, http.StatusConflict, "DUPLICATE_SHEET", "A sheet with this name already exists")
		case errors.Is(err, ErrMissingColumns), errors.Is(err, ErrEmptySheet), errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to store sheet")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"sheet": sheet})
}

func (h *Handler) List(c *gin.Context) {
	sheets, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list sheets")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sheets": sheets})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid sheet id")
		return
	}

	details, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Sheet not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load sheet")
		return
	}
	response.Success(c, http.StatusOK, details)
}

func (h *Handler) Items(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid sheet id")
		return
	}

	items, err := h.service.Items(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Sheet not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load items")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid sheet id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Sheet not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete sheet")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}
