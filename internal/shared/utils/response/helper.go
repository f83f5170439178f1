package response

import "github.com/gin-gonic/gin"

// OK writes a success envelope with the given status code.
func OK(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail writes an error envelope with the given status code.
func Fail(c *gin.Context, code int, message string, details interface{}) {
	c.JSON(code, Envelope{
		Success: false,
		Message: message,
		Error:   details,
	})
}
