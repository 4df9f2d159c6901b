package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AbbasKothari1552/StreamShield/internal/api/errors"
	"github.com/AbbasKothari1552/StreamShield/internal/api/middleware"
	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/dto"
	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RunHandler handles pipeline run endpoints
type RunHandler struct {
	service services.RunService
}

// NewRunHandler creates a new run handler
func NewRunHandler(service services.RunService) *RunHandler {
	return &RunHandler{service: service}
}

// Create handles POST /api/v1/runs
func (h *RunHandler) Create(c *gin.Context) {
	var req dto.CreateRunRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.CreateRun(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Get handles GET /api/v1/runs/:id
func (h *RunHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		middleware.HandleError(c, errors.NewBadRequestError("Invalid run ID"))
		return
	}

	response, err := h.service.GetRun(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// List handles GET /api/v1/runs
func (h *RunHandler) List(c *gin.Context) {
	var query dto.ListRunsQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.ListRuns(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(response.Count))
	c.JSON(http.StatusOK, response)
}

// Export handles GET /api/v1/runs/export and streams an xlsx workbook
func (h *RunHandler) Export(c *gin.Context) {
	var query dto.ListRunsQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportRuns(c.Request.Context(), query, &buf); err != nil {
		middleware.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("runs_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
