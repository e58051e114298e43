package middlewares

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	jwthandling "github.com/OdamboMichael/ims.xp/pkg/jwt-handling"
)

// RequireRole blocks requests whose validated token does not carry one of the
// allowed roles.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenValue, ok := c.Get("validatedToken")
		if !ok {
			slog.Warn("RequireRole: validatedToken not found in context")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validatedToken not found in context"})
			return
		}
		parsedToken := tokenValue.(*jwthandling.UserClaims)

		for _, role := range allowedRoles {
			if parsedToken.Role == role {
				return
			}
		}

		slog.Warn("RequireRole Middleware: user role not allowed for endpoint", slog.String("instanceID", parsedToken.InstanceID), slog.String("userID", parsedToken.Subject), slog.String("role", parsedToken.Role))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
	}
}
