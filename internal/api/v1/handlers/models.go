package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbbasKothari1552/StreamShield/internal/api/middleware"
	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/dto"
	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/services"
)

// ModelHandler handles model endpoints
type ModelHandler struct {
	service services.ModelService
}

// NewModelHandler creates a new model handler
func NewModelHandler(service services.ModelService) *ModelHandler {
	return &ModelHandler{service: service}
}

// Status handles GET /api/v1/models
func (h *ModelHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetStatus(c.Request.Context()))
}

// Load handles POST /api/v1/models/load. An empty body loads the configured paths.
func (h *ModelHandler) Load(c *gin.Context) {
	var req dto.LoadModelsRequest
	if c.Request.ContentLength != 0 {
		if err := middleware.ValidateRequest(c, &req); err != nil {
			middleware.HandleError(c, err)
			return
		}
	}

	response, err := h.service.LoadModels(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
