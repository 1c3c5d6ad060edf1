package mailer

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"netrates/internal/modules/pricelist"
	"netrates/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/pricelists/:id/email", h.Send)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/settings", h.GetSettings)
	r.PUT("/settings", h.UpdateSettings)
	r.GET("/settings/test", h.TestConfig)
	r.GET("/emails/analytics", h.Analytics)
}

func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
	}

	result, err := h.service.Send(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) GetSettings(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Settings())
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	view, err := h.service.UpdateSettings(req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save settings")
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) TestConfig(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.TestConfig())
}

func (h *Handler) Analytics(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	analytics, err := h.service.Analytics(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load email analytics")
		return
	}
	response.Success(c, http.StatusOK, analytics)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricelist.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Price list not found")
	case errors.Is(err, ErrNoRecipient):
		response.Error(c, http.StatusBadRequest, "NO_RECIPIENT", "No recipient email address on the draft or request")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid value")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
