package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the success body shared by all API endpoints.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// JSON writes a raw JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// Data writes payload wrapped in the success envelope.
func Data(c *gin.Context, status int, payload any) {
	JSON(c, status, Envelope{Code: 0, Message: "ok", Data: payload})
}

// OK writes a 200 OK enveloped response.
func OK(c *gin.Context, payload any) {
	Data(c, http.StatusOK, payload)
}
