package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbbasKothari1552/StreamShield/internal/api/middleware"
	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/dto"
	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/services"
)

// SettingsHandler handles settings endpoints
type SettingsHandler struct {
	service services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service services.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetSettings(c.Request.Context()))
}

// Update handles PUT /api/v1/settings.
// A beep words path that does not exist is not an error: the previous path is
// kept and beep_words_rejected is set in the response.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.service.UpdateSettings(c.Request.Context(), &req))
}

// BeepWords handles GET /api/v1/settings/beep-words
func (h *SettingsHandler) BeepWords(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetBeepWords(c.Request.Context()))
}
