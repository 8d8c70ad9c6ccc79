package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK sends a {"success": true, ...} response. Data and message are optional.
func OK(c *gin.Context, data interface{}, message string) {
	body := gin.H{"success": true}
	if data != nil {
		body["data"] = data
	}
	if message != "" {
		body["message"] = message
	}
	c.JSON(http.StatusOK, body)
}

// CreatedResponse sends a 201 with data and message
func CreatedResponse(c *gin.Context, data interface{}, message string) {
	body := gin.H{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	c.JSON(http.StatusCreated, body)
}

// Fail sends a {"success": false, "error": ...} response with the given status
func Fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"success": false, "error": message})
}

// FailWithError maps an error to the failure response. AppErrors carry their
// own status; anything else is reported as a generic 500 without internal
// detail leaking to the caller.
func FailWithError(c *gin.Context, err error, fallback string) {
	if appErr := GetAppError(err); appErr != nil {
		if appErr.Err != nil {
			LogError("%s: %v", appErr.Message, appErr.Err)
		}
		Fail(c, appErr.Code, appErr.Message)
		return
	}
	LogError("%s: %v", fallback, err)
	Fail(c, http.StatusInternalServerError, fallback)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden response
func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message)
}

// NotFound sends a 404 Not Found response
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

// Conflict sends a 409 Conflict response
func Conflict(c *gin.Context, message string) {
	Fail(c, http.StatusConflict, message)
}

// InternalServerError sends a 500 Internal Server Error response
func InternalServerError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, message)
}
