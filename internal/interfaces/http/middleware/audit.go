package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/lerp/backend/internal/infrastructure/audit"
)

// Audit returns a middleware that records successful mutating requests
// in the audit trail. Reads and rejected requests are not recorded.
// Recording is non-blocking; a saturated audit buffer never delays the
// request.
func Audit(recorder *audit.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			return
		}
		if c.Writer.Status() >= 400 {
			return
		}

		entry := audit.NewEntry(
			GetSessionID(c),
			c.FullPath(),
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			c.ClientIP(),
		)
		recorder.Record(entry)
	}
}
