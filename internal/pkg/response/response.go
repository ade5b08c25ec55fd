// Package response writes the JSON envelope shared by every HTTP endpoint:
// {"success": true, "data": ...} on success and
// {"success": false, "error": {"code", "message"}} on failure. Error codes
// are stable strings such as DATE_UNAVAILABLE that clients branch on;
// messages are free-form text for display.
package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorWithDetails carries a structured payload alongside the error, used
// for field-level validation failures.
func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
