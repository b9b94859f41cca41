package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolbay/internal/fingerprint"
	"toolbay/internal/models"
	"toolbay/internal/service"
)

// Context keys for the resolved request identity.
const (
	identityKey    = "toolbay.identity"
	fingerprintKey = "toolbay.fingerprint"
)

// Identity derives the request fingerprint and resolves it to a persistent
// anonymous user, attaching both to the gin context. Resolution failure does
// not abort the request: read endpoints work without an identity, and write
// endpoints reject later via RequireIdentity.
func Identity(identities service.IdentityService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fp := fingerprint.FromRequest(c.Request)
		c.Set(fingerprintKey, fp)

		user, err := identities.Resolve(fp)
		if err != nil {
			logger.Warn("Failed to resolve identity, continuing without user context",
				zap.String("fingerprint_prefix", fp[:8]), zap.Error(err))
			c.Next()
			return
		}

		c.Set(identityKey, user)
		c.Next()
	}
}

// IdentityFrom returns the resolved identity for the request, if any.
func IdentityFrom(c *gin.Context) (*models.User, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// FingerprintFrom returns the derived fingerprint for the request.
func FingerprintFrom(c *gin.Context) string {
	return c.GetString(fingerprintKey)
}

// RequireIdentity aborts with 503 when no identity could be resolved. Write
// endpoints depend on the identity for gatekeeping, so proceeding without one
// is not an option for them.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c); !ok {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"message":    "Identity could not be resolved, please retry",
					"code":       "IDENTITY_UNAVAILABLE",
					"statusCode": http.StatusServiceUnavailable,
				},
			})
			return
		}
		c.Next()
	}
}
