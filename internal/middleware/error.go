package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/menubebe/backend/internal/logging"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Recovery turns a panic in a handler into a JSON 500 response
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		ctx := c.Request.Context()
		logging.FromContext(ctx, logger).
			WithField("panic", err).
			WithField("path", c.Request.URL.Path).
			Error("Recovered from panic")
		panicsTotal.Inc()

		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "Internal Server Error",
			RequestID: logging.RequestID(ctx),
		})
	})
}

// NotFound answers unknown routes with a JSON body instead of gin's plain text
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:     "Not Found",
		RequestID: logging.RequestID(c.Request.Context()),
	})
}
