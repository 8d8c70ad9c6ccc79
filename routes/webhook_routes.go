package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/controllers"
	"github.com/prepal/ambassador-backend/middleware"
)

func initWebhookRoutes(api *gin.RouterGroup) {
	webhook := api.Group("/webhook")
	{
		webhook.POST("/referral",
			middleware.RateLimitMiddleware(10, time.Minute),
			middleware.VerifyWebhookSecret(),
			controllers.HandleNewStudent,
		)
	}
}
