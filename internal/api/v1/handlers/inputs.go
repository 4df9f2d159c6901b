package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbbasKothari1552/StreamShield/internal/api/middleware"
	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/dto"
	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/services"
)

// InputHandler handles input dispatch endpoints
type InputHandler struct {
	service services.InputService
}

// NewInputHandler creates a new input handler
func NewInputHandler(service services.InputService) *InputHandler {
	return &InputHandler{service: service}
}

// Process handles POST /api/v1/inputs
func (h *InputHandler) Process(c *gin.Context) {
	var req dto.ProcessInputRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.ProcessInput(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
