package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellerdesk/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. Spreadsheet
// uploads go through this too, so the limit must leave room for them.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size"))
			return
		}

		// Wrap the body for streaming requests without Content-Length
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
