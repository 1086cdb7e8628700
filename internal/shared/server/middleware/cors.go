package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var corsStaticHeaders = map[string]string{
	"Access-Control-Allow-Credentials": "true",
	"Access-Control-Allow-Methods":     "GET, POST, PUT, DELETE, OPTIONS",
	"Access-Control-Allow-Headers":     "Authorization, Content-Type, " + RequestIDHeader,
	"Access-Control-Expose-Headers":    "Content-Disposition, " + RequestIDHeader,
	"Access-Control-Max-Age":           "600",
}

// CORS echoes allowed origins back to the browser. An entry of "*" allows
// any origin. Preflight requests are answered with 204 whether or not the
// origin matched.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAny := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			allowAny = true
		default:
			allowed[o] = true
		}
	}

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" && (allowAny || allowed[origin]) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			for k, v := range corsStaticHeaders {
				h.Set(k, v)
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
