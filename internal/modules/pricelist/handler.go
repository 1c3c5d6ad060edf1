package pricelist

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"netrates/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	lists := r.Group("/pricelists")
	{
		lists.POST("", h.Create)
		lists.POST("/restore", h.Restore)
		lists.GET("/:id", h.Get)
		lists.PATCH("/:id", h.Update)
		lists.DELETE("/:id", h.Delete)
		lists.PUT("/:id/groups", h.SetGroupDiscount)
		lists.POST("/:id/apply-global", h.ApplyGlobalToGroups)
		lists.PUT("/:id/custom-price", h.SetCustomPrice)
		lists.PUT("/:id/transport", h.SetTransportCharge)
		lists.PUT("/:id/logo", h.SetLogo)
		lists.POST("/:id/clear", h.Clear)
		lists.GET("/:id/snapshot", h.Snapshot)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.SuccessWithWarnings(c, http.StatusOK, view, view.Warnings)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	view, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.SuccessWithWarnings(c, http.StatusOK, view, view.Warnings)
}

func (h *Handler) SetGroupDiscount(c *gin.Context) {
	var req GroupDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	view, err := h.service.SetGroupDiscount(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.SuccessWithWarnings(c, http.StatusOK, view, view.Warnings)
}

func (h *Handler) ApplyGlobalToGroups(c *gin.Context) {
	view, err := h.service.ApplyGlobalToGroups(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.SuccessWithWarnings(c, http.StatusOK, view, view.Warnings)
}

func (h *Handler) SetCustomPrice(c *gin.Context) {
	var req CustomPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	view, err := h.service.SetCustomPrice(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.SuccessWithWarnings(c, http.StatusOK, view, view.Warnings)
}

func (h *Handler) SetTransportCharge(c *gin.Context) {
	var req TransportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	view, err := h.service.SetTransportCharge(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.SuccessWithWarnings(c, http.StatusOK, view, view.Warnings)
}

func (h *Handler) SetLogo(c *gin.Context) {
	file, _, err := c.Request.FormFile("logo")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Logo file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxLogoBytes+1))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to read logo file")
		return
	}

	if err := h.service.SetLogo(c.Request.Context(), c.Param("id"), data); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"uploaded": true})
}

func (h *Handler) Clear(c *gin.Context) {
	view, err := h.service.Clear(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) Snapshot(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

func (h *Handler) Restore(c *gin.Context) {
	var snap Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid snapshot body")
		return
	}

	view, err := h.service.Restore(c.Request.Context(), snap)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.SuccessWithWarnings(c, http.StatusCreated, view, view.Warnings)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Price list not found")
	case errors.Is(err, ErrSheetNotFound):
		response.Error(c, http.StatusNotFound, "SHEET_NOT_FOUND", "Rate sheet not found")
	case errors.Is(err, ErrUnknownGroup):
		response.Error(c, http.StatusBadRequest, "UNKNOWN_GROUP", "Group not present on this sheet")
	case errors.Is(err, ErrUnknownItem):
		response.Error(c, http.StatusBadRequest, "UNKNOWN_ITEM", "Item not present on this sheet")
	case errors.Is(err, ErrUnknownTransport):
		response.Error(c, http.StatusBadRequest, "UNKNOWN_TRANSPORT", "Unknown delivery type")
	case errors.Is(err, ErrFixedTransport):
		response.Error(c, http.StatusBadRequest, "FIXED_TRANSPORT", "This delivery type cannot be changed")
	case errors.Is(err, ErrSheetMismatch):
		response.Error(c, http.StatusConflict, "SHEET_MISMATCH", "Snapshot was saved against a different sheet")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid value")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
