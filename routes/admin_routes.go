package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/controllers"
	"github.com/prepal/ambassador-backend/middleware"
)

func initAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		admin.GET("/dashboard-stats", controllers.GetDashboardStats)

		admin.GET("/ambassadors", controllers.GetAmbassadors)
		admin.POST("/ambassadors", controllers.CreateAmbassador)
		admin.GET("/ambassadors/:id", controllers.GetAmbassador)
		admin.PUT("/ambassadors/:id", controllers.UpdateAmbassador)
		admin.DELETE("/ambassadors/:id", controllers.DeleteAmbassador)
		admin.POST("/ambassadors/:id/reset-password", controllers.ResetAmbassadorPassword)

		admin.GET("/referrals", controllers.GetReferrals)
		admin.GET("/referrals/ambassador/:ambassadorId", controllers.GetReferralsByAmbassador)
		admin.PUT("/referrals/:id", controllers.UpdateReferral)

		admin.GET("/leaderboard", controllers.GetLeaderboard)

		admin.GET("/settings", controllers.GetSettings)
		admin.PUT("/settings", controllers.UpdateSettings)

		admin.GET("/export/ambassadors", controllers.ExportAmbassadors)
		admin.GET("/export/referrals", controllers.ExportReferrals)
		admin.GET("/export/payouts", controllers.ExportPayouts)
		admin.GET("/export/referrals/excel", controllers.DownloadReferralsReportExcel)
		admin.GET("/export/payouts/pdf", controllers.DownloadPayoutsReportPDF)

		payouts := admin.Group("/payouts")
		{
			payouts.GET("", controllers.GetPayouts)
			payouts.GET("/pending", controllers.GetPendingPayouts)
			payouts.POST("", controllers.CreatePayout)
			payouts.PUT("/:id", controllers.UpdatePayout)
		}
	}
}
