package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/handlers"
	"github.com/AbbasKothari1552/StreamShield/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	SettingsService services.SettingsService
	InputService    services.InputService
	RunService      services.RunService
	ModelService    services.ModelService
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	settingsHandler := handlers.NewSettingsHandler(container.SettingsService)
	settings := router.Group("/settings")
	{
		settings.GET("", settingsHandler.Get)
		settings.PUT("", settingsHandler.Update)
		settings.GET("/beep-words", settingsHandler.BeepWords)
	}

	inputHandler := handlers.NewInputHandler(container.InputService)
	router.POST("/inputs", inputHandler.Process)

	modelHandler := handlers.NewModelHandler(container.ModelService)
	models := router.Group("/models")
	{
		models.GET("", modelHandler.Status)
		models.POST("/load", modelHandler.Load)
	}

	if container.RunService != nil {
		runHandler := handlers.NewRunHandler(container.RunService)
		runs := router.Group("/runs")
		{
			runs.POST("", runHandler.Create)
			runs.GET("", runHandler.List)
			runs.GET("/export", runHandler.Export)
			runs.GET("/:id", runHandler.Get)
		}
	}
}
