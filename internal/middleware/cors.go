package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ambulance/internal/auth"
)

var corsAllowHeaders = strings.Join([]string{
	"Content-Type", "Authorization", auth.HeaderName, idempotencyHeader,
}, ", ")

// CORSMiddleware allows browser clients from any origin and answers preflight requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
