package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/controllers"
	"github.com/prepal/ambassador-backend/middleware"
)

func initAmbassadorRoutes(api *gin.RouterGroup) {
	ambassador := api.Group("/ambassador")
	ambassador.Use(middleware.AuthMiddleware(), middleware.RequireAmbassador())
	{
		ambassador.GET("/dashboard", controllers.GetPortalDashboard)
		ambassador.GET("/referrals", controllers.GetPortalReferrals)
		ambassador.GET("/payments", controllers.GetPortalPayments)
		ambassador.GET("/profile", controllers.GetPortalProfile)
		ambassador.PUT("/profile", controllers.UpdatePortalProfile)
		ambassador.PUT("/password", controllers.ChangePortalPassword)
	}
}
