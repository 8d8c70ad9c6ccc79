package middleware

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/config"
	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
)

// VerifyWebhookSecret guards the webhook endpoint with a shared secret. The
// secret may arrive under X-Security-Code (Prepal), X-Webhook-Secret (legacy)
// or, as a last resort, the Authorization header. The expected value comes
// from the WEBHOOK_SECRET env var, falling back to the webhook_secret settings
// row. No configured secret means every request is rejected.
func VerifyWebhookSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Security-Code")
		if provided == "" {
			provided = c.GetHeader("X-Webhook-Secret")
		}
		if provided == "" {
			provided = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}

		if provided == "" {
			utils.Unauthorized(c, "Webhook secret required")
			c.Abort()
			return
		}

		stored := os.Getenv("WEBHOOK_SECRET")
		if stored == "" {
			value, err := utils.GetSetting(config.DB, models.SettingWebhookSecret)
			if err != nil {
				utils.LogError("Webhook secret lookup failed: %v", err)
				utils.InternalServerError(c, "Internal server error")
				c.Abort()
				return
			}
			stored = value
		}

		if stored == "" {
			utils.LogError("Webhook secret not configured")
			utils.InternalServerError(c, "Webhook secret not configured")
			c.Abort()
			return
		}

		if provided != stored {
			utils.Unauthorized(c, "Invalid webhook secret")
			c.Abort()
			return
		}

		c.Next()
	}
}
