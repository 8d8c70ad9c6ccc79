package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/controllers"
	"github.com/prepal/ambassador-backend/middleware"
)

func initAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/login", controllers.Login)
		auth.POST("/logout", middleware.AuthMiddleware(), controllers.Logout)
		auth.POST("/refresh", middleware.AuthMiddleware(), controllers.Refresh)
		auth.GET("/me", middleware.AuthMiddleware(), controllers.GetMe)
	}
}
