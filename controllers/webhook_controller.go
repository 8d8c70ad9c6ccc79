package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/config"
	"github.com/prepal/ambassador-backend/utils"
)

// HandleNewStudent ingests a signup notification from the external signup
// system. The webhook secret guard has already run by the time this handler
// sees the payload.
func HandleNewStudent(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.LogError("Webhook payload rejected: %v", err)
		utils.BadRequest(c, "Invalid request body")
		return
	}

	req, err := NormalizeWebhookPayload(&payload)
	if err != nil {
		utils.FailWithError(c, err, "Failed to process referral")
		return
	}

	result, err := ProcessReferral(config.DB, req)
	if err != nil {
		if appErr := utils.GetAppError(err); appErr != nil {
			utils.LogInfo("Webhook delivery rejected for %s: %s", req.StudentEmail, appErr.Message)
		}
		utils.FailWithError(c, err, "Failed to process referral")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Referral recorded",
		"pointsAwarded":  result.PointsAwarded,
		"ambassadorName": result.AmbassadorName,
	})
}
