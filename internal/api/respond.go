package api

import (
	"github.com/gin-gonic/gin"
)

// All endpoints answer with the same envelope: {"success": bool, ...}.
// Errors never carry more than a message, so nothing about another user's
// data can leak through the ownership boundary.

// abortWithError returns a JSON error envelope and aborts the request.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "message": message})
}

// respondData returns a success envelope with a data payload.
func respondData(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// respondMessage returns a success envelope with a message and optional data.
func respondMessage(c *gin.Context, code int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}
