package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every request with a generated request id, duration and
// a truncated fingerprint. Full fingerprints never reach the logs.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		start := time.Now()

		c.Next()

		fp := FingerprintFrom(c)
		if len(fp) > 8 {
			fp = fp[:8] + "..."
		}

		log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration":    time.Since(start).String(),
			"client_ip":   c.ClientIP(),
			"fingerprint": fp,
		}).Info("request completed")
	}
}
