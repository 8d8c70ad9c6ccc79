package controllers

import (
	"errors"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/config"
	"github.com/prepal/ambassador-backend/middleware"
	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
	"gorm.io/gorm"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates the env-configured admin or an ambassador by email and
// password, returning a bearer token
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		utils.BadRequest(c, "Email and password are required")
		return
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail != "" && req.Email == adminEmail && req.Password == adminPassword {
		token, err := utils.GenerateToken(utils.TokenClaims{UserID: "admin", Email: adminEmail, Role: utils.RoleAdmin})
		if err != nil {
			utils.FailWithError(c, err, "Internal server error")
			return
		}
		utils.OK(c, gin.H{
			"token": token,
			"user":  gin.H{"id": "admin", "email": adminEmail, "name": "Admin", "role": utils.RoleAdmin},
		}, "")
		return
	}

	var ambassador models.Ambassador
	if err := config.DB.Where("email = ?", req.Email).First(&ambassador).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.LogError("Login attempt failed for %s: unknown email", req.Email)
			utils.Unauthorized(c, "Invalid email or password")
			return
		}
		utils.FailWithError(c, err, "Internal server error")
		return
	}

	if ambassador.Status != models.AmbassadorStatusActive {
		utils.Forbidden(c, "Account is not active")
		return
	}

	if !utils.CheckPassword(req.Password, ambassador.PasswordHash) {
		utils.LogError("Login attempt failed for %s: wrong password", req.Email)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	token, err := utils.GenerateToken(utils.TokenClaims{
		UserID: ambassador.ID,
		Email:  ambassador.Email,
		Role:   utils.RoleAmbassador,
	})
	if err != nil {
		utils.FailWithError(c, err, "Internal server error")
		return
	}

	utils.OK(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":           ambassador.ID,
			"email":        ambassador.Email,
			"name":         ambassador.Name,
			"role":         utils.RoleAmbassador,
			"referralCode": ambassador.ReferralCode,
		},
	}, "")
}

// Logout acknowledges the logout; token disposal is the client's job
func Logout(c *gin.Context) {
	utils.OK(c, nil, "Logged out successfully")
}

// Refresh issues a fresh token for the authenticated caller
func Refresh(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		utils.Unauthorized(c, "Authentication required")
		return
	}

	token, err := utils.GenerateToken(claims)
	if err != nil {
		utils.FailWithError(c, err, "Internal server error")
		return
	}

	utils.OK(c, gin.H{"token": token}, "")
}

// GetMe returns the authenticated caller's identity
func GetMe(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		utils.Unauthorized(c, "Authentication required")
		return
	}

	if claims.Role == utils.RoleAdmin {
		utils.OK(c, gin.H{"id": "admin", "email": claims.Email, "name": "Admin", "role": utils.RoleAdmin}, "")
		return
	}

	var ambassador models.Ambassador
	if err := config.DB.First(&ambassador, "id = ?", claims.UserID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	utils.OK(c, gin.H{
		"id":           ambassador.ID,
		"email":        ambassador.Email,
		"name":         ambassador.Name,
		"role":         utils.RoleAmbassador,
		"referralCode": ambassador.ReferralCode,
	}, "")
}
