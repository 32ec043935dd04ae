package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Tisseo/mimirsbrunn/app/controllers"
)

// SetupAPIRoutes wires the versioned autocomplete surface.
func SetupAPIRoutes(router *gin.Engine, autocompleteController *controllers.AutocompleteController) {
	v1 := router.Group("/v1")
	{
		// GET for plain queries, POST when a shape body restricts them
		v1.GET("/autocomplete", autocompleteController.Autocomplete)
		v1.POST("/autocomplete", autocompleteController.AutocompleteWithShape)
	}
}

// SetupHealthRoutes wires the probe endpoints.
func SetupHealthRoutes(router *gin.Engine, autocompleteController *controllers.AutocompleteController) {
	router.GET("/health", autocompleteController.Health)
	router.GET("/ready", autocompleteController.Health)
	router.GET("/live", autocompleteController.Health)
}

// SetupAllRoutes assembles middleware and every route group.
func SetupAllRoutes(router *gin.Engine, autocompleteController *controllers.AutocompleteController) {
	setupMiddleware(router)

	SetupHealthRoutes(router, autocompleteController)
	SetupAPIRoutes(router, autocompleteController)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

func setupMiddleware(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
}
