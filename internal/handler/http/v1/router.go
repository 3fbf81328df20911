package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Оценка безопасности
	api.POST("/score", h.score)
	api.GET("/heatmap", h.heatmap)

	// Маршруты
	route := api.Group("/route")
	{
		route.POST("/plan", h.planRoute)
		route.POST("/evaluate", h.evaluateRoutes)
	}

	// Отчеты пользователей принимаются только с API-ключом
	api.POST("/reports", ReporterAuthMiddleware(h.cfg.APIKeys, h.logger), h.submitReport)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
