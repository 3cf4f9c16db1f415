package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-resource-service/api/swagger"
	"user-resource-service/internal/adapter/gin/handler"
	"user-resource-service/internal/adapter/gin/middleware"
)

const swaggerDocPath = "/swagger/doc.json"

// SetupRouter configures and returns a Gin router with all routes and middleware.
// rateLimiter may be nil.
func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimiter *middleware.RateLimiter,
	serviceName string,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	router.GET("/swagger/*any", swaggerHandler())

	users := router.Group("/users", rateLimiter.Handler())
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	return router
}

// swaggerHandler serves the embedded document at doc.json and the UI for everything else.
func swaggerHandler() gin.HandlerFunc {
	ui := httpSwagger.Handler(httpSwagger.URL(swaggerDocPath))
	return func(c *gin.Context) {
		if c.Request.URL.Path == swaggerDocPath {
			c.Data(http.StatusOK, "application/json; charset=utf-8", swagger.Doc())
			return
		}
		ui(c.Writer, c.Request)
	}
}
