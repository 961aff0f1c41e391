package routes

import (
	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
	"github.com/abdelrahman-aldesoky/bank-server/internal/infrastructure/adapter/api/handler"
	"github.com/abdelrahman-aldesoky/bank-server/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures the operational endpoints
func SetupRoutes(router *gin.Engine, opsHandler *handler.OpsHandler) {
	router.GET("/healthz", opsHandler.Healthz)
	router.GET("/stats", opsHandler.Stats)
}

// SetupMiddlewares configures global middlewares for the ops server
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
}
